// Package detection finds the circular marks printed in answer-sheet bubbles.
//
// The scanner depends only on the [CircleFinder] interface. Two
// implementations exist: the OpenCV-backed finder in the vision package and
// [HoughFinder] here, a pure-Go Hough gradient transform that needs no cgo.
// Both take the same [CircleParams], whose fields carry the meaning of the
// OpenCV HoughCircles arguments.
//
// # Algorithm Overview
//
// HoughFinder follows the classic gradient method:
//
//  1. Smoothing: Gaussian blur of the grayscale input
//  2. Edge Detection: Canny with high threshold Param1 and low Param1/2
//  3. Center Voting: each edge pixel votes along its gradient direction for
//     every radius in [MinRadius, MaxRadius], on both sides of the edge
//  4. Center Selection: accumulator local maxima above Param2, strongest
//     first, closer than MinDist to an accepted center are dropped
//  5. Radius Estimation: the radius with the most edge support around each
//     center
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Centers are reported at sub-pixel precision (cell center × DP). Callers that
// need integer positions round them.
//
// # Performance Considerations
//
// Voting costs O(edges × (MaxRadius − MinRadius)). A canonical sheet has a few
// hundred thousand edge pixels, so a full scan takes on the order of a
// second. Narrow the radius range to speed it up.
//
// # Limitations
//
// The native finder is not bit-identical to OpenCV. Detected centers agree to
// within a pixel on clean prints, which is well inside the assignment
// tolerance of the scanner.
package detection
