// Package hrx decodes HRX ("human readable archive") files into an in-memory
// tree and materializes subtrees of that tree onto the filesystem.
//
// # Archive Format
//
// An archive is a sequence of entries separated by a boundary: "<", one or
// more "=", then ">". The first boundary in the archive fixes its length.
//
//	<===> input.scss
//	a {b: c}
//	<===> output.css
//	a {
//	  b: c;
//	}
//	<===> empty/
//	<===>
//	A comment describing the next entry.
//	<===> error/input.scss
//	a {b: }
//
// A file body runs up to the newline that precedes the next boundary, or to
// the end of the archive for the last entry. A path ending in "/" declares a
// directory and must have an empty body. A boundary with no path starts a
// comment, which must be followed by a file or directory entry. Parent
// directories of a file are implied.
//
// # Materialization
//
// Materialize writes a subtree to a fresh temporary directory owned by the
// returned handle. The handle's Cleanup removes it and is idempotent, so it
// can be deferred right after acquisition:
//
//	root, err := hrx.Load("spec/colors.hrx")
//	if err != nil {
//	    return err
//	}
//	sub, err := hrx.Navigate(root, "rgb/error")
//	if err != nil {
//	    return err
//	}
//	m, err := hrx.Materialize(sub, "")
//	if err != nil {
//	    return err
//	}
//	defer m.Cleanup()
package hrx
