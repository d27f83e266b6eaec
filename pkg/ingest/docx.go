package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// docxXMLMax bounds the uncompressed size of word/document.xml.
const docxXMLMax = 50 << 20

var reDocxNewlines = regexp.MustCompile(`\n{3,}`)

// DocxExtractor extracts text from DOCX files by walking the XML of
// word/document.xml inside the zip container. Paragraphs and table rows
// become lines, table cells are tab-separated, and tracked deletions
// are skipped.
type DocxExtractor struct{}

func (e *DocxExtractor) Extract(ctx context.Context, name string, content []byte) ([]byte, error) {
	return parseDocx(content)
}

func parseDocx(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("document.xml not found in docx")
	}
	if docFile.UncompressedSize64 > docxXMLMax {
		return nil, fmt.Errorf("document.xml too large: %d bytes", docFile.UncompressedSize64)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(io.LimitReader(rc, int64(docxXMLMax)))

	var sb strings.Builder
	var (
		inText   bool
		delDepth int
		inTable  bool
		inCell   bool
		cellIdx  int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "del":
				delDepth++
			case "t":
				inText = true
			case "tab":
				if delDepth == 0 {
					sb.WriteByte('\t')
				}
			case "br", "cr":
				if delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "noBreakHyphen":
				if delDepth == 0 {
					sb.WriteByte('-')
				}
			case "tbl":
				inTable = true
				cellIdx = 0
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteByte('\n')
				}
			case "tr":
				cellIdx = 0
			case "tc":
				inCell = true
				if inTable && delDepth == 0 {
					if cellIdx > 0 {
						sb.WriteByte('\t')
					}
					cellIdx++
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				// rows break on tr, not on the paragraphs inside cells
				if delDepth == 0 && !inCell {
					sb.WriteByte('\n')
				}
			case "tc":
				inCell = false
			case "tr":
				if delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "tbl":
				inTable = false
				if delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "del":
				if delDepth > 0 {
					delDepth--
				}
			}

		case xml.CharData:
			if delDepth != 0 || !inText {
				continue
			}
			sb.Write(t)
		}
	}

	text := strings.TrimSpace(sb.String())
	text = reDocxNewlines.ReplaceAllString(text, "\n\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	return []byte(text), nil
}
