package comp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ddragonVersionsURL = "https://ddragon.leagueoflegends.com/api/versions.json"
	ddragonChampionURL = "https://ddragon.leagueoflegends.com/cdn/%s/data/en_US/champion.json"

	ddragonTimeout = 15 * time.Second
)

// championIndex mirrors the Data Dragon champion.json layout. Only the
// fields the mapper needs are decoded.
type championIndex struct {
	Data map[string]struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	} `json:"data"`
}

// RefreshFromDataDragon replaces the mapper's table with the champion index
// for the latest patch, using each champion's primary tag as its category.
// On any failure the existing table is left untouched.
func (m *Mapper) RefreshFromDataDragon(ctx context.Context) error {
	client := &http.Client{Timeout: ddragonTimeout}

	var versions []string
	if err := fetchJSON(ctx, client, ddragonVersionsURL, &versions); err != nil {
		return fmt.Errorf("fetch versions: %w", err)
	}
	if len(versions) == 0 {
		return fmt.Errorf("fetch versions: empty version list")
	}

	var index championIndex
	url := fmt.Sprintf(ddragonChampionURL, versions[0])
	if err := fetchJSON(ctx, client, url, &index); err != nil {
		return fmt.Errorf("fetch champion index: %w", err)
	}

	table := make(map[string]Category, len(index.Data))
	for _, champ := range index.Data {
		if len(champ.Tags) == 0 {
			continue
		}
		cat, err := ParseCategory(champ.Tags[0])
		if err != nil {
			// A new tag outside the fixed set would change the
			// composition identity space; refuse the whole refresh.
			return fmt.Errorf("champion %s: %w", champ.ID, err)
		}
		table[champ.ID] = cat
	}
	if len(table) == 0 {
		return fmt.Errorf("fetch champion index: no champions decoded")
	}

	m.replace(table)
	return nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ddragon returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
