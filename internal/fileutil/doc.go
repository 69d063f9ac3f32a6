// Package fileutil lists the lint source files of a directory.
//
// Listing is non-recursive, filters by extension (case-insensitive) and
// returns paths joined onto the scanned directory in sorted order so that
// repeated runs see files in the same order.
//
//	result, err := fileutil.ScanDirectory("clippy_lints/src", fileutil.ScanOptions{
//	    Extensions: []string{".rs"},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// Symbolic links are followed. A link whose target cannot be resolved is
// recorded in ScanResult.Errors and the scan continues.
package fileutil
