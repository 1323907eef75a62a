package web

import "html/template"

var pages = template.Must(template.New("pages").Parse(layout + indexPage + resultPage))

const layout = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            margin: 0;
        }

        .container {
            max-width: 960px;
            margin: 30px auto;
            padding: 30px;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        h1 { margin-top: 0; color: #1a73e8; }
        label { display: block; margin: 16px 0 6px; font-weight: 600; }
        .formats label { display: inline-block; margin-right: 16px; font-weight: normal; }
        .hint { color: #7f8c8d; font-size: 0.9em; }
        .error { background: #fdecea; color: #b71c1c; padding: 10px 14px; border-radius: 4px; white-space: pre-wrap; }
        .warning { color: #8a6d3b; }
        button { margin-top: 20px; padding: 10px 24px; background: #1a73e8; color: white; border: 0; border-radius: 4px; cursor: pointer; }

        table { width: 100%; border-collapse: collapse; margin-top: 16px; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #e0e0e0; vertical-align: top; }
        th { background: #f0f4f8; }
        .metrics span { display: inline-block; margin-right: 24px; }
    </style>
</head>
<body>
<div class="container">
{{end}}

{{define "foot"}}</div>
</body>
</html>
{{end}}
`

const indexPage = `{{define "index"}}{{template "head" "Attendance List Generator"}}
    <h1>Attendance List Generator</h1>
    {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
    <form method="post" action="/generate" enctype="multipart/form-data">
        <label for="roster">Student roster (.xlsx, .xls, .csv)</label>
        <input type="file" id="roster" name="roster" accept=".xlsx,.xlsm,.xls,.csv" required>

        <label for="template">Attendance template (.xlsx)</label>
        <input type="file" id="template" name="template" accept=".xlsx,.xlsm"{{if not .TemplateConfigured}} required{{end}}>
        {{if .TemplateConfigured}}<p class="hint">Leave empty to use the configured template.</p>{{end}}

        <label>Formats</label>
        <div class="formats">
            {{range .Formats}}<label><input type="checkbox" name="format" value="{{.Key}}"{{if .Checked}} checked{{end}}> {{.Label}}</label>
            {{end}}
        </div>

        <p class="hint">Uploads up to {{.MaxUploadMB}} MB.</p>
        <button type="submit">Generate</button>
    </form>
{{template "foot"}}{{end}}
`

const resultPage = `{{define "result"}}{{template "head" "Attendance Lists"}}
    <h1>Attendance Lists</h1>
    <p class="metrics">
        <span>Records: <strong>{{.Summary.TotalRecords}}</strong></span>
        <span>Groups: <strong>{{.Summary.TotalGroups}}</strong></span>
        <span>Students: <strong>{{.Summary.TotalStudents}}</strong></span>
        <span>Documents: <strong>{{.Summary.TotalOutputs}}</strong></span>
    </p>
    <p class="hint">{{.Summary.SourceRoster}} with {{.Summary.SourceTemplate}}, generated {{.Summary.GeneratedAt}}</p>
    {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
    {{if .Warnings}}<ul class="warning">{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>{{end}}

    <p><a href="/batches/{{.ID}}/manifest.csv">groups.csv</a> · <a href="/batches/{{.ID}}/report.xlsx">report.xlsx</a> · <a href="/">New batch</a></p>

    <table>
        <thead>
            <tr><th>No</th><th>Group</th><th>Students</th><th>Documents</th></tr>
        </thead>
        <tbody>
            {{range .Groups}}
            <tr>
                <td>{{.Number}}</td>
                <td>{{.Fields}}{{if .Error}}<p class="error">{{.Error}}</p>{{end}}</td>
                <td>{{.Students}}</td>
                <td>{{range .Files}}<a href="{{.URL}}">{{.Name}}</a><br>{{end}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>
{{template "foot"}}{{end}}
`
