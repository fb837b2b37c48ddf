package share

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/educast-cli/educast/episode"
	"github.com/educast-cli/educast/filesystem"
	"github.com/educast-cli/educast/key"
	"github.com/educast-cli/educast/network"
	"github.com/educast-cli/educast/util"
	"github.com/educast-cli/educast/where"
	"github.com/spf13/viper"
)

// Download streams the episode's media to the downloads directory and returns
// the path of the written file.
func Download(e *episode.Episode) (string, error) {
	resp, err := network.Client.Get(e.MediaURL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", e.Title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", e.Title, resp.StatusCode)
	}

	path := filepath.Join(downloadDir(), util.SanitizeFilename(e.Filename()))

	file, err := filesystem.API().Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		util.Ignore(func() error { return filesystem.API().Remove(path) })
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

func downloadDir() string {
	if custom := viper.GetString(key.DownloadDir); custom != "" {
		return custom
	}
	return where.Downloads()
}
