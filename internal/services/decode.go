// Permissive decoding of Spotify top items payloads
package services

import (
	"fmt"

	"github.com/desertthunder/trends/internal/models"
	"github.com/desertthunder/trends/internal/shared"
	"github.com/tidwall/gjson"
)

// ParseTracks decodes a top tracks document.
//
// The document may be a paging object ({"items": [...]}) or a bare array. Any other valid
// document decodes to an empty list, and array elements that are not objects are skipped.
// Fields that are missing or of the wrong type take their zero value; only a document that
// is not JSON at all is an error.
func ParseTracks(body []byte) ([]models.Track, error) {
	items, err := itemsOf(body)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, parseTrack(item))
	}
	return tracks, nil
}

// ParseArtists decodes a top artists document with the same rules as [ParseTracks].
func ParseArtists(body []byte) ([]models.Artist, error) {
	items, err := itemsOf(body)
	if err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(items))
	for _, item := range items {
		artists = append(artists, parseArtist(item))
	}
	return artists, nil
}

func itemsOf(body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidJSON, shared.Truncate(string(body), 64))
	}

	root := gjson.ParseBytes(body)
	switch {
	case root.IsObject():
		if items := root.Get("items"); items.IsArray() {
			return objectsOf(items), nil
		}
	case root.IsArray():
		return objectsOf(root), nil
	}
	return nil, nil
}

func objectsOf(arr gjson.Result) []gjson.Result {
	objects := []gjson.Result{}
	for _, el := range arr.Array() {
		if el.IsObject() {
			objects = append(objects, el)
		}
	}
	return objects
}

func parseTrack(el gjson.Result) models.Track {
	return models.Track{
		ID:         stringField(el, "id"),
		Name:       stringField(el, "name"),
		URI:        stringField(el, "uri"),
		Href:       stringField(el, "href"),
		Popularity: intField(el, "popularity"),
		DurationMS: intField(el, "duration_ms"),
		Explicit:   boolField(el, "explicit"),
		Album:      parseAlbum(el.Get("album")),
		Artists:    parseCredits(el.Get("artists")),
	}
}

func parseArtist(el gjson.Result) models.Artist {
	return models.Artist{
		ID:         stringField(el, "id"),
		Name:       stringField(el, "name"),
		URI:        stringField(el, "uri"),
		Href:       stringField(el, "href"),
		Popularity: intField(el, "popularity"),
		Followers:  intField(el, "followers.total"),
		Genres:     stringsField(el.Get("genres")),
		Images:     parseImages(el.Get("images")),
	}
}

func parseAlbum(el gjson.Result) models.Album {
	album := models.Album{Artists: []string{}, Images: []models.Image{}}
	if !el.Exists() {
		return album
	}

	album.ID = stringField(el, "id")
	album.Name = stringField(el, "name")
	album.URI = stringField(el, "uri")
	album.Href = stringField(el, "href")
	album.ReleaseDate = stringField(el, "release_date")
	album.AlbumType = stringField(el, "album_type")
	album.TotalTracks = intField(el, "total_tracks")
	album.Images = parseImages(el.Get("images"))
	for _, credit := range parseCredits(el.Get("artists")) {
		album.Artists = append(album.Artists, credit.Name)
	}
	return album
}

// parseCredits reads the simplified artist objects attached to tracks and albums.
func parseCredits(el gjson.Result) []models.Artist {
	credits := []models.Artist{}
	if !el.IsArray() {
		return credits
	}

	for _, item := range el.Array() {
		credits = append(credits, models.Artist{
			ID:     stringField(item, "id"),
			Name:   stringField(item, "name"),
			URI:    stringField(item, "uri"),
			Href:   stringField(item, "href"),
			Genres: []string{},
			Images: []models.Image{},
		})
	}
	return credits
}

func parseImages(el gjson.Result) []models.Image {
	images := []models.Image{}
	if !el.IsArray() {
		return images
	}

	for _, item := range el.Array() {
		images = append(images, models.Image{
			URL:    stringField(item, "url"),
			Height: intField(item, "height"),
			Width:  intField(item, "width"),
		})
	}
	return images
}

// stringsField keeps only the string elements of an array.
func stringsField(el gjson.Result) []string {
	values := []string{}
	if !el.IsArray() {
		return values
	}

	for _, item := range el.Array() {
		if item.Type == gjson.String {
			values = append(values, item.Str)
		}
	}
	return values
}

func stringField(el gjson.Result, path string) string {
	if v := el.Get(path); v.Type == gjson.String {
		return v.Str
	}
	return ""
}

func intField(el gjson.Result, path string) int {
	if v := el.Get(path); v.Type == gjson.Number {
		return int(v.Int())
	}
	return 0
}

func boolField(el gjson.Result, path string) bool {
	return el.Get(path).Type == gjson.True
}
