package model

type ActionType string

const (
	ActionGoogleReview ActionType = "GOOGLE_REVIEW"
	ActionInstagram    ActionType = "INSTAGRAM"
	ActionFacebook     ActionType = "FACEBOOK"
	ActionTikTok       ActionType = "TIKTOK"
)

// ActionTypes lists every supported action type in display order.
var ActionTypes = []ActionType{ActionGoogleReview, ActionInstagram, ActionFacebook, ActionTikTok}

func (t ActionType) Valid() bool {
	switch t {
	case ActionGoogleReview, ActionInstagram, ActionFacebook, ActionTikTok:
		return true
	}
	return false
}

// Action is one required customer engagement step. Priority is 1-based and
// follows the position in Configuration.Actions.
type Action struct {
	ID       string     `json:"id"`
	Type     ActionType `json:"type"`
	Target   string     `json:"target"`
	Priority int        `json:"priority"`
}
