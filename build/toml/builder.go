package toml

import (
	"regexp"
	"strings"
)

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const defaultIndent = 4

// Option configures a Builder.
type Option func(*Builder)

// WithIndent sets the width of the indentation prefix. Zero disables it.
func WithIndent(width int) Option {
	return func(b *Builder) {
		if width < 0 {
			width = 0
		}
		b.indent = strings.Repeat(" ", width)
	}
}

// Builder assembles a TOML document one line at a time. Every method returns
// the builder so calls can be chained; the first failure is kept in Err and
// turns the remaining calls into no-ops until ClearErr is called. A failed
// call writes nothing, so the document stays valid and open for appends.
//
// A Builder must not be used from more than one goroutine.
type Builder struct {
	out    strings.Builder
	lines  int
	indent string
	keys   *KeyStore
	scope  string // canonical path of the current header, "" at the root
	err    error
}

func New(opts ...Option) *Builder {
	b := &Builder{
		indent: strings.Repeat(" ", defaultIndent),
		keys:   NewKeyStore(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// =========================
// Fluent API
// =========================

// AddValue writes `key = value`, followed by ` #comment` when one is given.
func (b *Builder) AddValue(key string, v Value, comment ...string) *Builder {
	if b.err != nil {
		return b
	}
	const op = "addValue"
	if strings.TrimSpace(key) == "" {
		return b.fail(newError(op, key, ErrEmptyKey, ""))
	}
	name, err := quoteKey(key)
	if err != nil {
		return b.fail(withKey(err, op, key))
	}
	path := name
	if b.scope != "" {
		path = b.scope + "." + name
	}
	if !b.keys.IsValidKey(path) {
		return b.fail(newError(op, key, ErrDuplicateKey, "already defined as %s", path))
	}
	text, err := Encode(v)
	if err != nil {
		return b.fail(withKey(err, op, key))
	}

	line := name + " = " + text
	if c := strings.Join(comment, " "); c != "" {
		line += " #" + c
	}
	b.keys.AddKey(path)
	b.writeLine(line)
	return b
}

// Set converts v with ValueOf and adds it like AddValue.
func (b *Builder) Set(key string, v any, comment ...string) *Builder {
	if b.err != nil {
		return b
	}
	tv, err := ValueOf(v)
	if err != nil {
		return b.fail(withKey(err, "addValue", key))
	}
	return b.AddValue(key, tv, comment...)
}

// AddTable opens a [dotted] table.
func (b *Builder) AddTable(dotted string) *Builder {
	if b.err != nil {
		return b
	}
	const op = "addTable"
	if err := checkHeader(op, dotted); err != nil {
		return b.fail(err)
	}
	path := b.keys.Resolve(dotted)
	switch {
	case b.keys.HasValuePrefix(path):
		return b.fail(newError(op, dotted, ErrKeyConflict, ""))
	case b.keys.IsTableImplicitFromArrayTable(path):
		return b.fail(newError(op, dotted, ErrKindConflict, "already an array of tables"))
	case !b.keys.IsValidTableKey(path):
		if b.keys.kindOf(path) == keyValue {
			return b.fail(newError(op, dotted, ErrDuplicateKey, ""))
		}
		return b.fail(newError(op, dotted, ErrDuplicateTable, ""))
	}

	b.keys.AddTableKey(path)
	b.scope = path
	b.writeHeader("[" + dotted + "]")
	return b
}

// AddArrayOfTable opens a new [[dotted]] instance. Repeating the same name is
// how further instances are added.
func (b *Builder) AddArrayOfTable(dotted string) *Builder {
	if b.err != nil {
		return b
	}
	const op = "addArrayOfTable"
	if err := checkHeader(op, dotted); err != nil {
		return b.fail(err)
	}
	path := b.keys.Resolve(dotted)
	if b.keys.HasValuePrefix(path) {
		return b.fail(newError(op, dotted, ErrKeyConflict, ""))
	}
	if !b.keys.IsValidArrayTableKey(path) {
		if b.keys.kindOf(path) == keyValue {
			return b.fail(newError(op, dotted, ErrDuplicateKey, ""))
		}
		return b.fail(newError(op, dotted, ErrKindConflict, "already a table"))
	}

	b.keys.AddArrayTableKey(path)
	b.scope = b.keys.InstancePath(path)
	b.writeHeader("[[" + dotted + "]]")
	return b
}

// AddComment writes `#text` on its own line.
func (b *Builder) AddComment(text string) *Builder {
	if b.err != nil {
		return b
	}
	b.writeLine("#" + text)
	return b
}

// =========================
// Accessors
// =========================

// Document returns the text written so far. It can be called at any time.
func (b *Builder) Document() string { return b.out.String() }

func (b *Builder) Bytes() []byte { return []byte(b.out.String()) }

// Err returns the first error raised by a fluent call, if any.
func (b *Builder) Err() error { return b.err }

// ClearErr returns the kept error and lets later calls append again.
func (b *Builder) ClearErr() error {
	err := b.err
	b.err = nil
	return err
}

// Lines returns the number of lines written, blank separators included.
func (b *Builder) Lines() int { return b.lines }

// Indent returns the indentation prefix. Top-level output does not use it.
func (b *Builder) Indent() string { return b.indent }

// =========================
// Internals
// =========================

func (b *Builder) fail(err error) *Builder {
	b.err = err
	return b
}

func (b *Builder) writeLine(s string) {
	b.out.WriteString(s)
	b.out.WriteByte('\n')
	b.lines++
}

func (b *Builder) writeHeader(s string) {
	if b.lines > 0 {
		b.writeLine("")
	}
	b.writeLine(s)
}

func checkHeader(op, dotted string) error {
	if strings.TrimSpace(dotted) == "" {
		return newError(op, dotted, ErrEmptyKey, "")
	}
	for _, seg := range strings.Split(dotted, ".") {
		if seg == "" {
			return newError(op, dotted, ErrEmptyKey, "empty segment")
		}
		if !bareKey.MatchString(seg) {
			return newError(op, dotted, ErrBareKey, "%q", seg)
		}
	}
	return nil
}

// quoteKey returns key unchanged when it is bare and as a basic string
// otherwise.
func quoteKey(key string) (string, error) {
	if bareKey.MatchString(key) {
		return key, nil
	}
	return encodeBasicString(key, false)
}
