// Package vision binds the scanner's detector interfaces to OpenCV.
//
// On builds with cgo enabled, this uses gocv with native OpenCV bindings:
//
//   - [ArucoSource] implements omr.MarkerSource with the 4×4, 100-marker
//     ArUco dictionary
//   - [CircleFinder] implements detection.CircleFinder with
//     cv::HoughCircles
//
// Without cgo the constructors return [ErrUnavailable] and callers fall back
// to the pure-Go circle finder. There is no pure-Go ArUco decoder, so the
// marker stage requires an OpenCV build.
//
// OpenCV matrices are created and released inside each call; nothing is
// cached between calls, so both types are safe for concurrent use.
package vision

import "errors"

// ErrUnavailable is returned when the binary was built without OpenCV.
var ErrUnavailable = errors.New("opencv support not compiled in (build with cgo)")
