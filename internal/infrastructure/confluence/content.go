package confluence

import "encoding/json"

type contentResponse struct {
	Title    string `json:"title"`
	Metadata struct {
		Labels struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		} `json:"labels"`
	} `json:"metadata"`
}

func decodeContent(body []byte) (pageMetadata, error) {
	var payload contentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return pageMetadata{}, err
	}

	meta := pageMetadata{Title: payload.Title}
	for _, label := range payload.Metadata.Labels.Results {
		if label.Name != "" {
			meta.Labels = append(meta.Labels, label.Name)
		}
	}

	return meta, nil
}
