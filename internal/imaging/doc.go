// Package imaging provides the raster operations used by the sheet scanner.
//
// This package implements the pixel-level building blocks of the pipeline:
// decoding, grayscale conversion, contrast stretching, Otsu binarization,
// cropping, perspective warping, edge extraction, overlay drawing and
// data-URI encoding. All operations work with standard Go image types and use
// a coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Numeric Compatibility
//
// Grayscale conversion, contrast stretching and Otsu thresholding reproduce
// the integer arithmetic of the OpenCV routines the scanner was calibrated
// against, so thresholds tuned on one implementation carry over:
//   - Gray = (4899·R + 9617·G + 1868·B + 8192) >> 14
//   - Stretch = saturate(roundHalfEven(alpha·v))
//   - Binarize sets 255 where v > level, 0 otherwise
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// Functions are stateless and never modify their inputs unless the name says
// so (the Draw* helpers paint onto the image they are given). Different
// images can be processed concurrently.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions that do not intersect the image
//   - Malformed data URIs or undecodable image bytes
//   - Encoding errors during image output
package imaging
