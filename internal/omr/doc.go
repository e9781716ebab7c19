// Package omr recognizes answers on photographed bubble sheets.
//
// A sheet carries eleven square fiducials, a QR code describing its answer
// block, and columns of printed bubbles. [Pipeline.Run] takes a photo and
//
//  1. finds the fiducials ([MarkerDetector])
//  2. warps the photo into the 2380×3368 canonical frame in two stages
//     ([PerspectiveAligner])
//  3. reads the answer block description from the QR code
//     ([MetadataDecoder]) or takes it from configuration
//  4. lays out where every bubble should be ([Grid])
//  5. detects printed circles and pairs them with the expected bubbles by
//     minimum total distance ([AssignmentMatcher])
//  6. decides which bubble of each question is filled ([BubbleClassifier])
//  7. renders a preview with rings and answer dots ([HighlightRenderer])
//
// # Collaborators
//
// Marker detection, QR decoding and circle finding are injected through
// [MarkerSource], [CodeReader] and detection.CircleFinder so the pipeline can
// run against OpenCV, the pure-Go finders, or test fakes.
//
// # Errors
//
// Hard failures are *[Error] values tagged with an [ErrorKind]; use
// [IsKind] or [KindOf] to branch on them. An ambiguous question is not an
// error: its value is nil.
package omr
