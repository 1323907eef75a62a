package html

// SheetTemplate renders a filled attendance sheet as a printable A4 page
const SheetTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        @page {
            size: A4 portrait;
            margin: 0.25in;
        }

        body {
            font-family: Calibri, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
        }

        .container {
            max-width: 210mm;
            margin: 20px auto;
            padding: 20px;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        table {
            width: 100%;
            border-collapse: collapse;
            table-layout: fixed;
        }

        td {
            padding: 2px 4px;
            font-size: 11pt;
            overflow: hidden;
            white-space: nowrap;
            text-overflow: ellipsis;
        }

        td.bold { font-weight: bold; }
        td.italic { font-style: italic; }
        td.bordered { border: 1px solid #000000; }

        @media print {
            body { background: white; }
            .container { margin: 0; padding: 0; box-shadow: none; border-radius: 0; max-width: none; }
        }
    </style>
</head>
<body>
    <div class="container">
        <table>
            <colgroup>
                {{range .Columns}}<col style="width: {{px .}}px">
                {{end}}
            </colgroup>
            <tbody>
                {{range .Rows}}
                <tr style="height: {{.Height}}pt">
                    {{range .Cells}}<td{{if gt .ColSpan 1}} colspan="{{.ColSpan}}"{{end}}{{if gt .RowSpan 1}} rowspan="{{.RowSpan}}"{{end}}{{if .Classes}} class="{{.Classes}}"{{end}} style="text-align: {{if .Align}}{{.Align}}{{else}}left{{end}}; vertical-align: {{.VAlign}};{{if .Size}} font-size: {{.Size}}pt;{{end}}">{{.Text}}</td>
                    {{end}}
                </tr>
                {{end}}
            </tbody>
        </table>
    </div>
</body>
</html>
`
