// Command omr-scan reads answer sheets from the command line.
//
// Usage:
//
//	omr-scan scan sheet.jpg            # recognize a photographed sheet
//	omr-scan scan - < upload.txt       # data URI or image bytes on stdin
//	omr-scan detect photo.jpg          # run the object detector
//	omr-scan box convert --from xyxy --to ccwh --width 640 --height 480 10 20 110 220
//	omr-scan version
//
// Configuration is read from --config, ./omr-scan.toml or
// ~/.config/omr-scan/config.toml, with OMR_* environment overrides. A .env
// file in the working directory is loaded first.
//
// Results are printed as a table on a terminal and as JSON otherwise, or
// whenever --json is given. Scan failures exit with a code identifying the
// failure kind (see exitCode).
package main
