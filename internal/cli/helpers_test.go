package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// suiteArchive has one case per outcome under dart-sass in normal mode.
const suiteArchive = `<===> basic/input.scss
a {b: c}
<===> basic/output.css
a {
  b: c;
}
<===> broken/input.scss
a {b: c}
<===> broken/output.css
a {
  b: c;
}
<===> broken/actual-stdout
a {
  b: d;
}
<===> skipped/options.yml
:ignore_for:
  - dart-sass
<===> skipped/input.scss
a {b: c}
<===> pending/options.yml
:todo:
  - dart-sass
<===> pending/input.scss
a {b: c}
<===> pending/output.css
a {b: c}
<===> error/parse/input.scss
a {
<===> error/parse/error
Error: expected "}".
  ,
1 | a {
  |    ^
  '
  input.scss 1:4  root stylesheet
`

// inSuiteDir changes into a fresh directory holding suite.hrx.
func inSuiteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, env := range []string{"SASS_SPEC_IMPL", "SASS_SPEC_COMMAND", "SASS_SPEC_ARGS", "SASS_SPEC_MODE", "SASS_SPEC_DB", "SASS_SPEC_TMPDIR", "SASS_SPEC_CACHE_SIZE"} {
		t.Setenv(env, "")
	}
	require.NoError(t, os.WriteFile("suite.hrx", []byte(suiteArchive), 0644))
	return dir
}

// execute runs cmd with args and returns what it wrote to stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	outBuf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
