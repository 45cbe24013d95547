package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slackteams/tokenstore/internal/credstore"
)

type item struct {
	Key   string
	Value *string
}

func TestJSONFormatterOutcome(t *testing.T) {
	var out bytes.Buffer
	f := NewTo("json", &out, &bytes.Buffer{})

	value := "xoxb-123"
	require.NoError(t, f.Print(credstore.Outcome{Success: true, Value: &value}))
	assert.JSONEq(t, `{"success":true,"error":null,"value":"xoxb-123"}`, out.String())
}

func TestJSONFormatterList(t *testing.T) {
	var out bytes.Buffer
	f := NewTo("json", &out, &bytes.Buffer{})

	items := []item{{Key: "a"}, {Key: "b"}}
	require.NoError(t, f.PrintList(items, nil))
	assert.JSONEq(t, `{"count":2,"data":[{"Key":"a","Value":null},{"Key":"b","Value":null}]}`, out.String())
}

func TestJSONFormatterError(t *testing.T) {
	var errOut bytes.Buffer
	f := NewTo("json", &bytes.Buffer{}, &errOut)

	f.PrintError(errors.New("vault locked"))
	f.PrintHint("ignored")
	assert.JSONEq(t, `{"error":"vault locked"}`, errOut.String())
}

func TestPlainFormatterDereferencesPointers(t *testing.T) {
	var out bytes.Buffer
	f := NewTo("plain", &out, &bytes.Buffer{})

	require.NoError(t, f.Print(credstore.Outcome{Success: true, Kind: credstore.KindNone}))
	assert.Equal(t, "Success\ttrue\nError\t\nValue\t\n", out.String())
}

func TestPlainFormatterList(t *testing.T) {
	var out bytes.Buffer
	f := NewTo("plain", &out, &bytes.Buffer{})

	v := "secret"
	items := []item{{Key: "a", Value: &v}, {Key: "b"}}
	cols := []Column{{Name: "Key", Key: "Key"}, {Name: "Value", Key: "Value"}}

	require.NoError(t, f.PrintList(items, cols))
	assert.Equal(t, "Key\tValue\na\tsecret\nb\t\n", out.String())
}

func TestPlainFormatterListMaps(t *testing.T) {
	var out bytes.Buffer
	f := NewTo("plain", &out, &bytes.Buffer{})

	items := []map[string]string{{"name": "file"}}
	require.NoError(t, f.PrintList(items, []Column{{Name: "Name", Key: "name"}}))
	assert.Equal(t, "Name\nfile\n", out.String())
}

func TestPrintListRequiresSlice(t *testing.T) {
	for _, mode := range []string{"plain", "rich"} {
		t.Run(mode, func(t *testing.T) {
			f := NewTo(mode, &bytes.Buffer{}, &bytes.Buffer{})
			assert.Error(t, f.PrintList(item{}, nil))
		})
	}
}

func TestRichFormatterTable(t *testing.T) {
	var out bytes.Buffer
	f := NewTo("rich", &out, &bytes.Buffer{})

	items := []item{{Key: "service_name"}, {Key: "backend"}}
	require.NoError(t, f.PrintList(items, []Column{{Name: "Key", Key: "Key"}}))

	assert.Contains(t, out.String(), "Key")
	assert.Contains(t, out.String(), "service_name")
	assert.Contains(t, out.String(), "backend")
}

func TestRenderTableEmptyUnstyled(t *testing.T) {
	var out bytes.Buffer
	RenderTable(&out, []Column{{Name: "Key", Key: "Key"}}, nil, false)
	assert.Empty(t, out.String())
}
