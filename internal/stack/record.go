package stack

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

type recordOptions struct {
	packagePath bool
	fileName    bool
	line        bool
	lambdas     bool
}

type recordOption func(opts *recordOptions)

func PackagePath(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.packagePath = b
	}
}

func FileName(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.fileName = b
	}
}

func Line(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.line = b
	}
}

func Lambda(b bool) recordOption {
	return func(opts *recordOptions) {
		opts.lambdas = b
	}
}

type call struct {
	function string
	file     string
	line     int
}

// Call returns the caller frame at depth (0 is the caller of Call).
func Call(depth int) call {
	function, file, line := xerrors.Caller(depth + 1).Location()

	return call{
		function: function,
		file:     file,
		line:     line,
	}
}

func (c call) Record(opts ...recordOption) string {
	options := recordOptions{
		packagePath: true,
		fileName:    true,
		line:        true,
		lambdas:     true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	pkgPath, name := splitPackagePath(strings.ReplaceAll(c.function, "[...]", ""))
	if !options.lambdas {
		name = trimLambdas(name)
	}

	var b strings.Builder
	if options.packagePath && pkgPath != "" {
		b.WriteString(pkgPath)
		b.WriteByte('/')
	}
	b.WriteString(name)
	if options.fileName {
		b.WriteByte('(')
		b.WriteString(fileName(c.file))
		if options.line {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(c.line))
		}
		b.WriteByte(')')
	}

	return b.String()
}

func (c call) FunctionID() string {
	return c.Record(Lambda(false), FileName(false))
}

func splitPackagePath(function string) (pkgPath, name string) {
	if i := strings.LastIndex(function, "/"); i > -1 {
		return function[:i], function[i+1:]
	}

	return "", function
}

// trimLambdas drops trailing anonymous function segments (func1, func2.1, ...).
func trimLambdas(name string) string {
	parts := strings.Split(name, ".")
	for len(parts) > 1 {
		last := parts[len(parts)-1]
		if !strings.HasPrefix(last, "func") && !isNumber(last) {
			break
		}
		parts = parts[:len(parts)-1]
	}

	return strings.Join(parts, ".")
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)

	return err == nil
}

func fileName(file string) string {
	if i := strings.LastIndex(file, "/"); i > -1 {
		return file[i+1:]
	}

	return file
}

// Record returns the caller record at depth (0 is the caller of Record).
func Record(depth int, opts ...recordOption) string {
	return Call(depth + 1).Record(opts...)
}
