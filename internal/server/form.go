package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/zephyrtronium/arith"
	"github.com/zephyrtronium/arith/internal/present"
)

// DefaultExpression is evaluated when the form page is opened without one.
const DefaultExpression = "2 * (3 + 4)"

// DefaultExamples are the example expressions listed on the form page.
var DefaultExamples = []string{
	"2 + 2",
	"3 * 4",
	"2 * (3 + 4)",
	"(3 + 5) * (2 - 1) / 4",
	"-5 + 10",
	"3.5 + 2.7",
	"10 / 2 / 2",
	"-(-3)",
}

type pageData struct {
	Expression string
	Result     string
	Warning    string
	Examples   []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	data := pageData{
		Expression: DefaultExpression,
		Examples:   s.cfg.Examples,
	}
	if q.Has("expression") {
		data.Expression = q.Get("expression")
	}
	s.log.Debug("form", slog.String("remote", r.RemoteAddr), slog.String("expression", data.Expression))
	if strings.TrimSpace(data.Expression) != "" {
		v, err := s.evaluate(data.Expression)
		switch {
		case errors.Is(err, arith.DivisionByZero):
			data.Warning = "Cannot divide by zero. Please check your expression."
		case err != nil:
			data.Warning = "Invalid expression: " + err.Error()
		default:
			data.Result = "Result: " + present.String(v)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.log.Error("rendering form", slog.Any("err", err))
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Mathematical Expression Evaluator</title>
<style>
body { font-family: sans-serif; max-width: 40em; margin: 2em auto; }
.success { background: #e6f4ea; border: 1px solid #34a853; padding: 0.5em; }
.warning { background: #fef7e0; border: 1px solid #f9ab00; padding: 0.5em; }
code { background: #f1f3f4; padding: 0.1em 0.3em; }
</style>
</head>
<body>
<h1>Mathematical Expression Evaluator</h1>
<form method="get" action="/">
<label for="expression">Enter a mathematical expression:</label>
<input id="expression" name="expression" value="{{.Expression}}" size="40">
<button type="submit">Evaluate</button>
</form>
{{if .Result}}<p class="success">{{.Result}}</p>{{end}}
{{if .Warning}}<p class="warning">{{.Warning}}</p>{{end}}
<h2>Examples</h2>
<ul>
{{range .Examples}}<li><a href="/?expression={{.}}"><code>{{.}}</code></a></li>
{{end}}</ul>
</body>
</html>
`
