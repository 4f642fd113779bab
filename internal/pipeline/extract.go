package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"feedjoin/internal"
	"feedjoin/internal/util"
)

var ErrUnsupportedFormat = errors.New("unsupported feed format")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func LoadFile(path string) (internal.Table, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return internal.Table{}, err
	}
	return LoadBytes(filepath.Base(path), blob)
}

// LoadBytes picks a loader from the file name extension.
func LoadBytes(name string, data []byte) (internal.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", "":
		text, err := DecodeText(data)
		if err != nil {
			return internal.Table{}, err
		}
		return ParseTable(text), nil
	case ".xlsx":
		return loadXLSX(data)
	case ".html", ".htm":
		return loadHTMLTable(data)
	case ".eml":
		return loadEML(data)
	default:
		return internal.Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// DecodeText returns UTF-8 text with any byte order mark removed. Input that
// is neither UTF-16 nor valid UTF-8 is read as Windows-1252.
func DecodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16: %w", err)
		}
		return string(out), nil
	case utf8.Valid(data):
		return string(data), nil
	default:
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode windows-1252: %w", err)
		}
		return string(out), nil
	}
}

// loadXLSX reads the first sheet that has any rows.
func loadXLSX(content []byte) (internal.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return internal.Table{}, err
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		records := make([]sourceRecord, 0, len(rows))
		for i, row := range rows {
			if isBlankRecord(row) {
				continue
			}
			records = append(records, sourceRecord{line: i + 1, fields: normalizeCells(row)})
		}
		if len(records) == 0 {
			continue
		}
		return buildTable(records), nil
	}
	return buildTable(nil), nil
}

// loadHTMLTable reads the first table of an HTML export.
func loadHTMLTable(content []byte) (internal.Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return internal.Table{}, err
	}

	records := []sourceRecord{}
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			if isBlankRecord(cells) {
				return
			}
			records = append(records, sourceRecord{line: i + 1, fields: cells})
		})
		return len(records) == 0
	})

	return buildTable(records), nil
}

// loadEML reads a feed mailed as an attachment. The first attachment in a
// supported format wins; otherwise the text body is parsed as delimited text.
func loadEML(raw []byte) (internal.Table, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return internal.Table{}, err
	}

	for _, att := range feedParts(env) {
		filename := strings.TrimSpace(att.FileName)
		table, err := LoadBytes(filename, att.Content)
		if err != nil {
			continue
		}
		if len(table.Headers) > 0 {
			return table, nil
		}
	}

	if strings.TrimSpace(env.Text) != "" {
		return ParseTable(env.Text), nil
	}
	if strings.Contains(strings.ToLower(env.HTML), "<table") {
		return loadHTMLTable([]byte(env.HTML))
	}
	return buildTable(nil), nil
}

// FeedAttachments lists the attachment names of a raw message that a loader
// can read.
func FeedAttachments(raw []byte) ([]string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, p := range feedParts(env) {
		names = append(names, strings.TrimSpace(p.FileName))
	}
	return names, nil
}

func feedParts(env *enmime.Envelope) []*enmime.Part {
	var out []*enmime.Part
	for _, group := range [][]*enmime.Part{env.Attachments, env.Inlines} {
		for _, p := range group {
			switch strings.ToLower(filepath.Ext(strings.TrimSpace(p.FileName))) {
			case ".csv", ".txt", ".xlsx", ".html", ".htm":
				out = append(out, p)
			}
		}
	}
	return out
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, util.NormalizeSpaces(c))
	}
	return out
}
