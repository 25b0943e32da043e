// Package spec resolves the configuration of a single spec case from its
// materialized directory.
//
// # Case Layout
//
// A case directory holds the stylesheet under test and the expected
// artifacts:
//
//	input.scss            (or input.sass) the stylesheet to compile
//	output.css            expected stdout for a successful compilation
//	error                 expected error text for a failing compilation
//	warning               expected warnings, one block per warning
//	output-<impl>.css     implementation-specific overrides, which take
//	error-<impl>          precedence over the generic files
//	warning-<impl>
//	options.yml           behavioral flags
//
// # Options File
//
//	:todo:
//	  - dart-sass
//	:warning_todo:
//	  - dart-sass
//	:ignore_for:
//	  - libsass
//	ignore: "reason this case never applies"
//	expected_warnings:
//	  - "WARNING: ..."
//
// Keys may be written with or without the leading colon. todo, warning_todo
// and ignore_for accept true, a single implementation name, or a list of
// names. Options files in ancestor directories are inherited; the nearest
// file wins per key.
package spec
