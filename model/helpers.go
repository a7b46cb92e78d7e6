package model

import (
	cloudModel "github.com/mattermost/mattermost-cloud/model"
)

// BuildHash is the git commit the binary was built from, set at link time.
var BuildHash string

// NewID returns a new random identifier.
func NewID() string {
	return cloudModel.NewID()
}
