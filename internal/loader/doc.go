// Package loader reads pretrained network weights from SafeTensors files.
//
// Checkpoints exported from torchvision address parameters by their module
// path ("features.0.weight", "classifier.6.bias"), which is exactly how
// nn.StateDict names them, so a VGG can be filled directly:
//
//	model := nn.NewVGG(cfg, backend, rng)
//	if err := loader.LoadVGG("vgg19.safetensors", model); err != nil {
//	    log.Fatal(err)
//	}
//
// F32 tensors are read as is. F64, F16 and BF16 tensors are converted to
// float32 while loading.
package loader
