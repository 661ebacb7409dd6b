// package formatter provides functions to export analytics to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/trends/internal/models"
	"github.com/desertthunder/trends/internal/shared"
)

// Supported export formats
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// timelineLayout is the date layout used for timeline entries in non-JSON exports.
const timelineLayout = "2006-01-02"

// NormalizeFormat maps format aliases to one of the supported formats.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

// Extension returns the file extension, with leading dot, for a supported format.
func Extension(format string) string {
	switch format {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// Export renders result in format.
func Export(result *models.AnalyticsResult, format string, pretty bool) ([]byte, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		return ExportToCSV(result)
	case FormatMarkdown:
		return ExportToMarkdown(result)
	case FormatText:
		return ExportToText(result)
	default:
		return shared.MarshalJSON(result, pretty)
	}
}

// WriteExport renders result in format and writes it to path.
func WriteExport(result *models.AnalyticsResult, format, path string) error {
	data, err := Export(result, format, true)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportToCSV flattens every analytics view into one table with columns: View, Name, Artist, Link, Value, Detail
func ExportToCSV(result *models.AnalyticsResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := [][]string{{"View", "Name", "Artist", "Link", "Value", "Detail"}}

	for _, e := range result.AlbumMosaicData {
		records = append(records, []string{"album_mosaic", e.AlbumName, e.ArtistName, e.SpotifyLink, strconv.Itoa(e.Count), ""})
	}

	top := result.TopArtistData
	records = append(records, []string{"top_artist", top.ArtistName, "", top.SpotifyLink, strconv.Itoa(top.Count), topArtistTrackNames(top)})

	for _, e := range result.ArtistLeaderboardData {
		detail := fmt.Sprintf("followers=%d popularity=%d", e.FollowerCount, e.Popularity)
		records = append(records, []string{"artist_leaderboard", e.ArtistName, "", e.SpotifyLink, strconv.Itoa(e.Rank), detail})
	}

	for _, e := range result.TrackTimelineData {
		records = append(records, []string{"track_timeline", e.TrackName, e.ArtistName, e.SpotifyLink, e.ReleaseDate.Format(timelineLayout), ""})
	}

	for _, e := range result.GenreBubbleData {
		records = append(records, []string{"genre_bubble", e.Genre, "", "", strconv.Itoa(e.Count), ""})
	}

	for _, record := range records {
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

// ExportToMarkdown renders each analytics view as a Markdown section.
func ExportToMarkdown(result *models.AnalyticsResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Listening Analytics\n\n")

	top := result.TopArtistData
	buf.WriteString("## Top Artist\n\n")
	fmt.Fprintf(&buf, "**%s** (%d tracks)\n\n", mdEscape(top.ArtistName), top.Count)
	for i, tr := range top.Tracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, mdEscape(tr.TrackName))
	}
	if len(top.Tracks) > 0 {
		buf.WriteString("\n")
	}

	buf.WriteString("## Album Mosaic\n\n")
	buf.WriteString("| Album | Artist | Tracks |\n|---|---|---|\n")
	for _, e := range result.AlbumMosaicData {
		fmt.Fprintf(&buf, "| %s | %s | %d |\n", mdEscape(e.AlbumName), mdEscape(e.ArtistName), e.Count)
	}

	buf.WriteString("\n## Artist Leaderboard\n\n")
	buf.WriteString("| Rank | Artist | Followers | Popularity |\n|---|---|---|---|\n")
	for _, e := range result.ArtistLeaderboardData {
		fmt.Fprintf(&buf, "| %d | %s | %d | %d |\n", e.Rank, mdEscape(e.ArtistName), e.FollowerCount, e.Popularity)
	}

	buf.WriteString("\n## Track Timeline\n\n")
	for _, e := range result.TrackTimelineData {
		fmt.Fprintf(&buf, "- %s: %s - %s\n", e.ReleaseDate.Format(timelineLayout), mdEscape(e.ArtistName), mdEscape(e.TrackName))
	}

	buf.WriteString("\n## Genres\n\n")
	for _, e := range result.GenreBubbleData {
		fmt.Fprintf(&buf, "- %s (%d)\n", mdEscape(e.Genre), e.Count)
	}

	return buf.Bytes(), nil
}

// ExportToText renders analytics as plain text with no escape sequences.
func ExportToText(result *models.AnalyticsResult) ([]byte, error) {
	return renderText(plainStyles, result), nil
}

// WriteText writes analytics as text to w, styled only when w is a colour terminal.
func WriteText(w io.Writer, result *models.AnalyticsResult) error {
	if _, err := w.Write(renderText(stylesFor(w), result)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func renderText(styles *palette, result *models.AnalyticsResult) []byte {
	var buf bytes.Buffer

	top := result.TopArtistData
	buf.WriteString(styles.heading.Render("Top Artist") + "\n")
	fmt.Fprintf(&buf, "%s (%d tracks)\n", styles.label.Render(top.ArtistName), top.Count)
	for _, tr := range top.Tracks {
		fmt.Fprintf(&buf, "  - %s\n", tr.TrackName)
	}

	buf.WriteString("\n" + styles.heading.Render("Albums") + "\n")
	for i, e := range result.AlbumMosaicData {
		fmt.Fprintf(&buf, "%d. %s - %s (%d)\n", i+1, e.ArtistName, e.AlbumName, e.Count)
	}

	buf.WriteString("\n" + styles.heading.Render("Artist Leaderboard") + "\n")
	for _, e := range result.ArtistLeaderboardData {
		fmt.Fprintf(&buf, "%3d  %s\n", e.Rank, e.ArtistName)
	}

	buf.WriteString("\n" + styles.heading.Render("Timeline") + "\n")
	for _, e := range result.TrackTimelineData {
		fmt.Fprintf(&buf, "%s  %s - %s\n", e.ReleaseDate.Format(timelineLayout), e.ArtistName, e.TrackName)
	}

	buf.WriteString("\n" + styles.heading.Render("Genres") + "\n")
	for _, e := range result.GenreBubbleData {
		fmt.Fprintf(&buf, "%s (%d)\n", e.Genre, e.Count)
	}

	return buf.Bytes()
}

// ExportDNAToText renders a [models.MusicDNA] summary as plain text with no escape sequences.
func ExportDNAToText(dna *models.MusicDNA) []byte {
	return renderDNA(plainStyles, dna)
}

// WriteDNAText writes a [models.MusicDNA] summary to w, styled only when w is a colour terminal.
func WriteDNAText(w io.Writer, dna *models.MusicDNA) error {
	if _, err := w.Write(renderDNA(stylesFor(w), dna)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func renderDNA(styles *palette, dna *models.MusicDNA) []byte {
	var buf bytes.Buffer

	buf.WriteString(styles.heading.Render("Music DNA") + "\n")
	fmt.Fprintf(&buf, "%s %s\n", styles.label.Render("Top genres:"), strings.Join(dna.TopGenres, ", "))
	fmt.Fprintf(&buf, "%s %.1f\n", styles.label.Render("Average popularity:"), dna.AveragePopularity)
	fmt.Fprintf(&buf, "%s %d\n", styles.label.Render("Tracks:"), dna.TotalTracks)
	fmt.Fprintf(&buf, "%s %d\n", styles.label.Render("Artists:"), dna.TotalArtists)

	return buf.Bytes()
}

func topArtistTrackNames(top models.TopArtist) string {
	names := make([]string, 0, len(top.Tracks))
	for _, tr := range top.Tracks {
		names = append(names, tr.TrackName)
	}
	return strings.Join(names, "; ")
}

// mdEscape escapes characters that would break a Markdown table cell.
func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
