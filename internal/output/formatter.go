package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
)

// Formatter is the interface for output formatting
type Formatter interface {
	Print(data any) error
	PrintList(items any, columns []Column) error
	PrintError(err error)
	PrintHint(msg string)
}

// Column defines a column for table/list output
type Column struct {
	Name  string // Display name
	Key   string // Struct field name or map key
	Width int    // Width for rich mode (0 = auto)
}

// New creates a formatter for the specified mode writing to stdout/stderr
func New(mode string) Formatter {
	return NewTo(mode, os.Stdout, os.Stderr)
}

// NewTo creates a formatter for the specified mode writing to out and errOut
func NewTo(mode string, out, errOut io.Writer) Formatter {
	switch mode {
	case "json":
		return &jsonFormatter{out: out, errOut: errOut}
	case "rich":
		profile := termenv.NewOutput(out).Profile
		return &richFormatter{out: out, errOut: errOut, profile: profile}
	default:
		return &plainFormatter{out: out, errOut: errOut}
	}
}

// NewJSON creates a JSON formatter with optional results-only mode
func NewJSON(resultsOnly bool) Formatter {
	return &jsonFormatter{out: os.Stdout, errOut: os.Stderr, resultsOnly: resultsOnly}
}

// jsonFormatter outputs JSON
type jsonFormatter struct {
	out         io.Writer
	errOut      io.Writer
	resultsOnly bool
}

func (f *jsonFormatter) Print(data any) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *jsonFormatter) PrintList(items any, columns []Column) error {
	if f.resultsOnly {
		return f.Print(items)
	}

	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	count := 0
	if v.Kind() == reflect.Slice {
		count = v.Len()
	}

	return f.Print(map[string]any{
		"data":  items,
		"count": count,
	})
}

func (f *jsonFormatter) PrintError(err error) {
	enc := json.NewEncoder(f.errOut)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]string{"error": err.Error()})
}

// PrintHint is a no-op; hints are for humans
func (f *jsonFormatter) PrintHint(msg string) {}

// field is one printable struct field
type field struct {
	name  string
	value string
}

// structFields lists exported fields, dereferencing pointers (nil prints as
// empty) and skipping fields hidden from JSON
func structFields(v reflect.Value) []field {
	t := v.Type()
	fields := make([]field, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get("json") == "-" {
			continue
		}
		fields = append(fields, field{name: sf.Name, value: display(v.Field(i))})
	}
	return fields
}

// display renders a value, dereferencing pointers
func display(v reflect.Value) string {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	return fmt.Sprintf("%v", v.Interface())
}

// rowValues pulls the column values out of a struct or map
func rowValues(item reflect.Value, columns []Column) map[string]string {
	for item.Kind() == reflect.Ptr {
		item = item.Elem()
	}

	row := make(map[string]string, len(columns))
	for _, col := range columns {
		switch item.Kind() {
		case reflect.Map:
			if mapVal := item.MapIndex(reflect.ValueOf(col.Key)); mapVal.IsValid() {
				row[col.Key] = display(mapVal)
			}
		case reflect.Struct:
			if fv := item.FieldByName(col.Key); fv.IsValid() {
				row[col.Key] = display(fv)
			}
		}
	}
	return row
}

func sliceRows(items any, columns []Column) ([]map[string]string, error) {
	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("PrintList requires a slice")
	}

	rows := make([]map[string]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		rows[i] = rowValues(v.Index(i), columns)
	}
	return rows, nil
}

// plainFormatter outputs tab-separated values
type plainFormatter struct {
	out    io.Writer
	errOut io.Writer
}

func (f *plainFormatter) Print(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() == reflect.Struct {
		for _, fld := range structFields(v) {
			fmt.Fprintf(f.out, "%s\t%s\n", fld.name, fld.value)
		}
		return nil
	}

	fmt.Fprintf(f.out, "%v\n", data)
	return nil
}

func (f *plainFormatter) PrintList(items any, columns []Column) error {
	rows, err := sliceRows(items, columns)
	if err != nil {
		return err
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}
	fmt.Fprintf(f.out, "%s\n", strings.Join(headers, "\t"))

	for _, row := range rows {
		values := make([]string, len(columns))
		for j, col := range columns {
			values[j] = row[col.Key]
		}
		fmt.Fprintf(f.out, "%s\n", strings.Join(values, "\t"))
	}

	return nil
}

func (f *plainFormatter) PrintError(err error) {
	fmt.Fprintf(f.errOut, "error: %v\n", err)
}

func (f *plainFormatter) PrintHint(msg string) {
	fmt.Fprintf(f.errOut, "hint: %v\n", msg)
}

// richFormatter outputs styled content for terminal
type richFormatter struct {
	out     io.Writer
	errOut  io.Writer
	profile termenv.Profile
}

func (f *richFormatter) Print(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() == reflect.Struct {
		keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
		valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

		for _, fld := range structFields(v) {
			fmt.Fprintf(f.out, "%s: %s\n",
				keyStyle.Render(fld.name),
				valueStyle.Render(fld.value),
			)
		}
		return nil
	}

	fmt.Fprintf(f.out, "%v\n", data)
	return nil
}

func (f *richFormatter) PrintList(items any, columns []Column) error {
	rows, err := sliceRows(items, columns)
	if err != nil {
		return err
	}

	RenderTable(f.out, columns, rows, f.profile != termenv.Ascii)
	return nil
}

func (f *richFormatter) PrintError(err error) {
	errorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9"))

	fmt.Fprintf(f.errOut, "%s\n", errorStyle.Render("error: "+err.Error()))
}

func (f *richFormatter) PrintHint(msg string) {
	hintStyle := lipgloss.NewStyle().
		Faint(true).
		Foreground(lipgloss.Color("8"))

	fmt.Fprintf(f.errOut, "%s\n", hintStyle.Render("hint: "+msg))
}
