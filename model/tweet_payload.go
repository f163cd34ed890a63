package model

// TweetPayload is the typed view over Like.TweetData used by the URL index
// builder. Only the fields the pipeline reads are declared; everything else
// stays in the raw message.
type TweetPayload struct {
	TypeName string         `json:"__typename,omitempty"`
	Entities *TweetEntities `json:"entities,omitempty"`
	Card     *TweetCard     `json:"card,omitempty"`
}

type TweetEntities struct {
	URLs []TweetURLEntity `json:"urls,omitempty"`
}

type TweetURLEntity struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
}

// TweetCard carries link preview metadata. The interesting values live in the
// loosely shaped binding_values map.
type TweetCard struct {
	URL           string            `json:"url,omitempty"`
	BindingValues CardBindingValues `json:"binding_values,omitempty"`
}

type CardBindingValues struct {
	Title                      *CardBindingValue `json:"title,omitempty"`
	Description                *CardBindingValue `json:"description,omitempty"`
	ThumbnailImageOriginal     *CardBindingValue `json:"thumbnail_image_original,omitempty"`
	PhotoImageFullSizeOriginal *CardBindingValue `json:"photo_image_full_size_original,omitempty"`
	SummaryPhotoImageOriginal  *CardBindingValue `json:"summary_photo_image_original,omitempty"`
}

type CardBindingValue struct {
	StringValue string          `json:"string_value,omitempty"`
	ImageValue  *CardImageValue `json:"image_value,omitempty"`
}

type CardImageValue struct {
	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}
