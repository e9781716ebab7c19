// Package inference is a client for the object-detection model served over
// the TensorFlow Serving REST API.
//
// A request letterboxes the image onto a white 640×640 canvas and posts it
// as a single instance. The raw predictions are post-processed locally:
// score thresholding, non-max suppression (see geometry.SuppressNonMax),
// undoing the letterbox and normalizing the boxes to the source image.
package inference
