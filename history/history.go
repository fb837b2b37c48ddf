// Package history provides the implementation for tracking and persisting viewer media consumption state.
package history

import (
	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

// cacher provides an abstracted, disk-backed registry for playback progress records.
var cacher = gache.New[map[string]*SavedEpisode](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of historical playback records from the persistent store.
func Get() (map[string]*SavedEpisode, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedEpisode), nil
	}
	return cached, nil
}

// Save persists the playback progress of a specific episode to the history registry.
func Save(e *episode.Episode, percentage float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedEpisode(e)

	// Idempotency: Maintain the maximum observed playback percentage to prevent regressions on re-watch.
	if existing, exists := saved[record.encode()]; exists {
		if percentage < existing.WatchedPercentage {
			percentage = existing.WatchedPercentage
		}
	}
	record.WatchedPercentage = percentage

	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a specific playback record from the history registry.
func Remove(e *SavedEpisode) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, e.encode())
	return cacher.Set(saved)
}

// Search returns the history records whose titles fuzzily match the given query.
func Search(query string) ([]*SavedEpisode, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	if query == "" {
		return records, nil
	}

	return lo.Filter(records, func(record *SavedEpisode, _ int) bool {
		return fuzzy.MatchFold(query, record.Title)
	}), nil
}
