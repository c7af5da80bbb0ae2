package metrics

import (
	"strings"

	"github.com/hayeah/foldermap/render"
)

// Summary describes one rendered report.
type Summary struct {
	Dirs   int `json:"dirs"`
	Files  int `json:"files"`
	Errors int `json:"errors"`
	MetricItem
}

// Summarize classifies every line of report and measures it with c.
func Summarize(report string, c Counter) Summary {
	var s Summary
	if report == "" {
		return s
	}
	for _, line := range strings.Split(report, "\n") {
		switch entryMarker(line) {
		case render.DirMarker:
			s.Dirs++
		case render.FileMarker:
			s.Files++
		default:
			if strings.Contains(line, "[Error: ") {
				s.Errors++
			}
		}
	}
	s.Add(c.Count(report))
	return s
}

// entryMarker returns the marker that follows a line's connector, or "".
func entryMarker(line string) string {
	i := strings.Index(line, "── ")
	if i < 0 {
		return ""
	}
	rest := line[i+len("── "):]
	for _, m := range []string{render.DirMarker, render.FileMarker} {
		if strings.HasPrefix(rest, m) {
			return m
		}
	}
	return ""
}

// Block is the slice of a report drawn for one top-level entry.
type Block struct {
	Name string
	Text string
}

// SplitBlocks cuts report at every top-level entry line.
func SplitBlocks(report string) []Block {
	var blocks []Block
	if report == "" {
		return blocks
	}
	for _, line := range strings.Split(report, "\n") {
		if name, ok := topLevelName(line); ok {
			blocks = append(blocks, Block{Name: name, Text: line})
			continue
		}
		if len(blocks) == 0 {
			blocks = append(blocks, Block{Text: line})
			continue
		}
		last := &blocks[len(blocks)-1]
		last.Text += "\n" + line
	}
	return blocks
}

func topLevelName(line string) (string, bool) {
	for _, connector := range []string{"├── ", "└── "} {
		if rest, ok := strings.CutPrefix(line, connector); ok {
			rest = strings.TrimPrefix(rest, render.DirMarker)
			rest = strings.TrimPrefix(rest, render.FileMarker)
			return rest, true
		}
	}
	return "", false
}
