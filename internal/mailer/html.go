package mailer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // generated drafts may embed raw HTML snippets
	),
)

const emailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Newsletter</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f4f4f4;
        }
        .container {
            background-color: #ffffff;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        h1 {
            color: #6366f1;
            border-bottom: 3px solid #6366f1;
            padding-bottom: 10px;
        }
        h2 { color: #1e40af; margin-top: 30px; }
        h3 { color: #4b5563; }
        a { color: #6366f1; text-decoration: none; }
        a:hover { text-decoration: underline; }
        ul, ol { padding-left: 20px; }
        blockquote {
            border-left: 4px solid #6366f1;
            margin: 20px 0;
            padding-left: 20px;
            color: #6b7280;
            font-style: italic;
        }
        code {
            background-color: #f3f4f6;
            padding: 2px 6px;
            border-radius: 4px;
            font-family: 'Courier New', monospace;
        }
        pre {
            background-color: #1f2937;
            color: #f9fafb;
            padding: 15px;
            border-radius: 8px;
            overflow-x: auto;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e5e7eb;
            font-size: 0.875rem;
            color: #6b7280;
            text-align: center;
        }
        img { max-width: 100%%; height: auto; }
    </style>
</head>
<body>
    <div class="container">
        %s
        <div class="footer">
            <p>Sent via CreatorPulse | <a href="#">Unsubscribe</a></p>
        </div>
    </div>
</body>
</html>`

// RenderHTML converts a markdown newsletter to the styled HTML email body.
func RenderHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return fmt.Sprintf(emailTemplate, strings.TrimSpace(buf.String())), nil
}
