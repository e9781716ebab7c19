// Package geometry provides the numeric primitives shared by the sheet
// scanner and the detection post-processing path.
//
// # Boxes
//
// A bounding box is four numbers whose meaning depends on its [BoxFormat]:
//
//   - CCWH: center x, center y, width, height
//   - XYWH: top-left x, top-left y, width, height
//   - XYXY: top-left x, top-left y, bottom-right x, bottom-right y
//
// Coordinates are either absolute pixels or normalized to [0,1] by the image
// dimensions. [Convert] moves between any two representations by going
// through the center form.
//
// # Non-max suppression
//
// [SuppressNonMax] is a greedy suppressor whose overlap score is the
// intersection divided by the candidate's own area, not IoU. A small box
// sitting inside a larger kept box is therefore suppressed even when their
// IoU is low.
//
// # Homographies
//
// [EstimateHomography] solves the exact projective transform from four point
// pairs with the normalized DLT. [EstimateHomographyRobust] searches for the
// consensus model over many pairs and refits it on the inliers.
//
// # Coordinate System
//
// All coordinates use the image convention: origin at top-left, X grows
// rightward and Y grows downward.
package geometry
