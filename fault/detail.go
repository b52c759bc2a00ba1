package fault

import (
	"bytes"
	"text/template"
)

var detailTmpl = template.Must(template.New("detail").Parse(`Unhandled Exception

Message:
{{ .Message }}

Location:
{{ .Location }}

Stack Trace:
{{ .Stack }}
`))

// detailPage renders the plain text diagnostic shown in detail mode.
// It is sent as text/plain, so rec's message appears verbatim.
func detailPage(rec *Record) string {
	b := new(bytes.Buffer)
	if err := detailTmpl.Execute(b, rec); err != nil {
		return rec.Message
	}

	return b.String()
}
