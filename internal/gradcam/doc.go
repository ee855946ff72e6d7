// Package gradcam computes Grad-CAM and guided-backpropagation explanations
// for a convolutional classifier.
//
// A Runner drives one forward pass through the feature stack and the
// classifier head while a Tap records the activations of selected feature
// layers and captures their gradients during backpropagation. GradCAM turns
// the deepest captured pair into a normalized saliency map. GuidedBackprop
// runs a copy of the network whose feature rectifiers suppress negative
// gradients and returns the gradient on the input image.
//
// Typical use:
//
//	engine := autodiff.New(cpu.New())
//	runner := gradcam.NewRunner(model.Features, model.Classifier, engine, "35")
//	pass, _ := runner.Run(input)
//	for _, p := range gradcam.TopK(pass.Logits, 5) {
//	    cam, _ := gradcam.New(runner, gradcam.DefaultConfig()).ExplainPass(pass, p.Index)
//	    ...
//	}
//
// A retained pass stays valid until the engine's tape is cleared, which
// every Runner.Run and GuidedBackprop.Explain does.
package gradcam
