package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"
)

// TopTracks lists the user's top tracks as returned by the TopItems service.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	timeRange := cmd.String("time-range")
	limit := int(cmd.Int("limit"))

	credential, err := r.credential(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Infof("listing top tracks for %v", timeRange)
	tracks := r.topItems(cmd.String("upstream")).TopTracks(ctx, timeRange, credential)

	if limit > 0 && limit < len(tracks) {
		tracks = tracks[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, t := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, strings.Join(t.ArtistNames(), ", "), t.Name)
		if t.Album.Name != "" {
			r.writePlain("   Album: %s\n", t.Album.Name)
		}
		if t.Album.ReleaseDate != "" {
			r.writePlain("   Released: %s\n", t.Album.ReleaseDate)
		}
		r.writePlain("   Popularity: %d\n", t.Popularity)
	}

	return nil
}

// TopArtists lists the user's top artists as returned by the TopItems service.
func (r *Runner) TopArtists(ctx context.Context, cmd *cli.Command) error {
	timeRange := cmd.String("time-range")
	limit := int(cmd.Int("limit"))

	credential, err := r.credential(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Infof("listing top artists for %v", timeRange)
	artists := r.topItems(cmd.String("upstream")).TopArtists(ctx, timeRange, credential)

	if limit > 0 && limit < len(artists) {
		artists = artists[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d artists:\n\n", len(artists))
	for i, a := range artists {
		r.writePlain("%d. %s\n", i+1, a.Name)
		if len(a.Genres) > 0 {
			r.writePlain("   Genres: %s\n", strings.Join(a.Genres, ", "))
		}
		r.writePlain("   Followers: %d\n", a.Followers)
		r.writePlain("   Popularity: %d\n", a.Popularity)
	}

	return nil
}
