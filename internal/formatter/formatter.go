// package formatter provides functions to export song data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spkr/internal/models"
	"github.com/desertthunder/spkr/internal/shared"
)

// Format names accepted by [Export].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// ExportToCSV converts songs to CSV format with columns: ID, Title, Artist, Tags, Created
func ExportToCSV(songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Tags", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.Artist,
			models.JoinTags(song.Tags),
			song.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts songs to a Markdown list under the given heading
func ExportToMarkdown(title string, songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	for i, song := range songs {
		tagPart := ""
		if len(song.Tags) > 0 {
			tagPart = fmt.Sprintf(" `%s`", strings.Join(song.Tags, "` `"))
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, song.Artist, song.Title, tagPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts songs to plain text format
func ExportToText(songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts songs to indented JSON
func ExportToJSON(songs []*models.Song) ([]byte, error) {
	data, err := json.MarshalIndent(songs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal songs: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders songs in the named format.
func Export(format string, songs []*models.Song) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(songs)
	case FormatMarkdown, "md":
		return ExportToMarkdown("Songs", songs)
	case FormatText, "txt":
		return ExportToText(songs)
	case FormatJSON:
		return ExportToJSON(songs)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders songs in format and writes them to path.
func WriteExport(format string, songs []*models.Song, path string) error {
	data, err := Export(format, songs)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}
