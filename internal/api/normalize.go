package api

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/mattermost/updatechecker/internal/normalizer"
	"github.com/mattermost/updatechecker/model"
)

func handleNormalize(c *Context, w http.ResponseWriter, r *http.Request) {
	component := lookupComponent(c, w, r)
	if component == nil {
		return
	}

	defer r.Body.Close()
	request, err := model.NewNormalizeRequestFromReader(r.Body)
	if err != nil {
		c.Logger.WithError(err).Error("failed to unmarshal JSON from request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if request.Source == "" || request.RemoteSource == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Source and RemoteSource must be set"))
		return
	}

	upgrading := normalizer.UpgradeTarget(component.Identity)
	if request.UpgradingType != "" || request.UpgradingDirectory != "" {
		upgrading = normalizer.UpgradeTarget{
			Type:          request.UpgradingType,
			DirectoryName: request.UpgradingDirectory,
		}
	}

	source, err := c.Normalizer.NormalizeFor(upgrading, component.Identity, request.Source, request.RemoteSource)
	if err != nil {
		var normalizeErr *normalizer.NormalizeError
		if errors.As(err, &normalizeErr) {
			c.Logger.WithError(err).Warnf("refusing to install update of %s", component.Slug)
			writeJSON(c, w, http.StatusUnprocessableEntity, model.ErrorResponse{
				Code:    normalizeErr.Code,
				Message: normalizeErr.Message,
			})
			return
		}
		c.Logger.WithError(err).Errorf("failed to normalize update of %s", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(c, w, http.StatusOK, model.NormalizeResponse{Source: source})
}
