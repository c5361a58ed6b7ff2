package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// flexString accepts both JSON strings and numbers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = flexString(n.String())
	return nil
}

// flexInt accepts numbers, numeric strings and the empty string.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v := strings.TrimSpace(string(s))
	if v == "" {
		*n = 0
		return nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return fmt.Errorf("invalid number %q", v)
		}
		i = int64(f)
	}
	*n = flexInt(i)
	return nil
}

type wireImage struct {
	Src string `json:"src"`
}

type wireItem struct {
	ItemID        flexString                 `json:"item_id"`
	Status        flexInt                    `json:"status"`
	SortID        flexInt                    `json:"sort_id"`
	Favorite      flexInt                    `json:"favorite"`
	GivenTitle    string                     `json:"given_title"`
	ResolvedTitle string                     `json:"resolved_title"`
	Title         string                     `json:"title"`
	GivenURL      string                     `json:"given_url"`
	ResolvedURL   string                     `json:"resolved_url"`
	NormalURL     string                     `json:"normal_url"`
	Excerpt       string                     `json:"excerpt"`
	TopImageURL   string                     `json:"top_image_url"`
	Image         *wireImage                 `json:"image"`
	TimeAdded     flexInt                    `json:"time_added"`
	TimeUpdated   flexInt                    `json:"time_updated"`
	Tags          map[string]json.RawMessage `json:"tags"`
}

func (w wireItem) toModel(key string) (models.Item, error) {
	id := string(w.ItemID)
	if id == "" {
		id = key
	}
	if id == "" {
		return models.Item{}, fmt.Errorf("item without id")
	}

	status := models.Status(w.Status)
	switch status {
	case models.StatusUnread, models.StatusArchived, models.StatusDeleted:
	default:
		return models.Item{}, fmt.Errorf("item %s: unknown status %d", id, w.Status)
	}

	item := models.Item{
		ID:       id,
		Status:   status,
		SortKey:  int64(w.SortID),
		Favorite: w.Favorite == 1,
		Title:    firstNonEmpty(w.ResolvedTitle, w.GivenTitle, w.Title),
		URL:      firstNonEmpty(w.ResolvedURL, w.GivenURL, w.NormalURL),
		Excerpt:  w.Excerpt,
		Image:    w.TopImageURL,
	}
	if item.Image == "" && w.Image != nil {
		item.Image = w.Image.Src
	}
	if w.TimeAdded > 0 {
		item.AddedAt = time.Unix(int64(w.TimeAdded), 0).UTC()
	}
	if w.TimeUpdated > 0 {
		item.UpdatedAt = time.Unix(int64(w.TimeUpdated), 0).UTC()
	}
	if len(w.Tags) > 0 {
		item.Tags = make([]string, 0, len(w.Tags))
		for tag := range w.Tags {
			item.Tags = append(item.Tags, tag)
		}
		sort.Strings(item.Tags)
	}
	return item, nil
}

type wireList struct {
	Status flexInt         `json:"status"`
	List   json.RawMessage `json:"list"`
	Since  flexString      `json:"since"`
	Total  flexInt         `json:"total"`
}

func (w wireList) toModel() (*models.ListResponse, error) {
	out := &models.ListResponse{
		Since: string(w.Since),
		Total: int(w.Total),
	}

	raw := bytes.TrimSpace(w.List)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	// The API sends an empty array instead of an empty object.
	if raw[0] == '[' {
		var items []wireItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		for _, wi := range items {
			item, err := wi.toModel("")
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, item)
		}
		return out, nil
	}

	var byID map[string]wireItem
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	keys := make([]string, 0, len(byID))
	for k := range byID {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		item, err := byID[k].toModel(k)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

type wireSend struct {
	Status        flexInt           `json:"status"`
	ActionResults []json.RawMessage `json:"action_results"`
}

func (w wireSend) toModel() *SendResult {
	res := &SendResult{Status: int(w.Status), Results: make([]bool, len(w.ActionResults))}
	for i, r := range w.ActionResults {
		v := string(bytes.TrimSpace(r))
		res.Results[i] = v != "false" && v != "null" && v != "" && v != "0"
	}
	return res
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
