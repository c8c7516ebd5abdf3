package parser

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// DefaultPreprocessor runs the system C compiler's preprocessor. Its output
// keeps linemarkers, which Parse uses to find system headers.
const DefaultPreprocessor = "cc -E"

// PreprocessOptions configures Preprocess.
type PreprocessOptions struct {
	// Command is the preprocessor command line, split with shell quoting
	// rules. Empty selects DefaultPreprocessor.
	Command string

	// Args are extra arguments such as include paths and defines, split the
	// same way.
	Args string

	Logger *zap.SugaredLogger
}

// Preprocess runs the configured C preprocessor over header and returns its
// output.
func Preprocess(ctx context.Context, opts PreprocessOptions, header string) ([]byte, error) {
	if opts.Command == "" {
		opts.Command = DefaultPreprocessor
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	command, err := shellquote.Split(opts.Command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid preprocessor command %q", opts.Command)
	}
	if len(command) == 0 {
		return nil, errors.New("empty preprocessor command")
	}

	extra, err := shellquote.Split(opts.Args)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid preprocessor arguments %q", opts.Args)
	}

	args := append(command[1:], extra...)
	args = append(args, header)

	opts.Logger.Debugw("Running preprocessor", "command", command[0], "args", args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		err = errors.Wrapf(err, "preprocessing %s failed (command=%s, args=%v)", header, command[0], args)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = errors.WithDetail(err, msg)
		}
		return nil, errors.WithHint(err, "set preprocess.enabled = false to parse the header as written")
	}

	return stdout.Bytes(), nil
}
