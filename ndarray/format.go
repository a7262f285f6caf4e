package ndarray

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// EdgeItems is how many leading and trailing entries per axis Format keeps
// when summarizing.
const EdgeItems = 3

// Format renders a in nested brackets, right-aligning every cell to the
// widest one. When threshold > 0 and the array holds more elements than
// threshold, each long axis is cut down to its edges around "...".
func Format(a *Array, threshold int) string {
	f := &formatter{
		a:         a,
		summarize: threshold > 0 && a.Size() > threshold,
		idx:       make([]int, a.NDim()),
	}
	if a.NDim() == 0 {
		return f.cell(f.idx)
	}
	f.cells(0, func(idx []int) {
		f.width = max(f.width, utf8.RuneCountInString(f.cell(idx)))
	})
	var sb strings.Builder
	f.render(&sb, 0)
	return sb.String()
}

type formatter struct {
	a         *Array
	summarize bool
	width     int
	idx       []int
}

// axis lists the indices shown along dim; -1 marks the elision.
func (f *formatter) axis(dim int) []int {
	n := f.a.shape[dim]
	if !f.summarize || n <= 2*EdgeItems {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, 2*EdgeItems+1)
	for i := range EdgeItems {
		out = append(out, i)
	}
	out = append(out, -1)
	for i := n - EdgeItems; i < n; i++ {
		out = append(out, i)
	}
	return out
}

func (f *formatter) cells(dim int, fn func(idx []int)) {
	for _, i := range f.axis(dim) {
		if i < 0 {
			continue
		}
		f.idx[dim] = i
		if dim == len(f.idx)-1 {
			fn(f.idx)
		} else {
			f.cells(dim+1, fn)
		}
	}
}

func (f *formatter) render(sb *strings.Builder, dim int) {
	last := len(f.idx) - 1
	sb.WriteByte('[')
	for k, i := range f.axis(dim) {
		if k > 0 {
			if dim == last {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(strings.Repeat("\n", last-dim))
				sb.WriteString(strings.Repeat(" ", dim+1))
			}
		}
		if i < 0 {
			sb.WriteString("...")
			continue
		}
		f.idx[dim] = i
		if dim == last {
			c := f.cell(f.idx)
			sb.WriteString(strings.Repeat(" ", f.width-utf8.RuneCountInString(c)))
			sb.WriteString(c)
		} else {
			f.render(sb, dim+1)
		}
	}
	sb.WriteByte(']')
}

func (f *formatter) cell(idx []int) string {
	v, err := f.a.At(idx...)
	if err != nil {
		return "?"
	}
	switch f.a.dtype {
	case Bytes:
		return "b" + strconv.Quote(string(v.([]byte)))
	case Str:
		return strconv.Quote(v.(string))
	case Void:
		return "0x" + hex.EncodeToString(v.([]byte))
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// FormatShape renders a shape as a tuple, e.g. "(2, 3)" or "(4,)".
func FormatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ParseShape is the inverse of FormatShape.
func ParseShape(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidShape, s)
	}
	body := strings.TrimSuffix(strings.TrimSpace(s[1:len(s)-1]), ",")
	shape := []int{}
	if body == "" {
		return shape, nil
	}
	for _, p := range strings.Split(body, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidShape, s)
		}
		shape = append(shape, d)
	}
	return shape, nil
}

// String renders the array with the default summarization threshold.
func (a *Array) String() string {
	return Format(a, 1000)
}
