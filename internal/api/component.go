// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"net/http"

	"github.com/mattermost/updatechecker/model"
)

func handleListComponents(c *Context, w http.ResponseWriter, r *http.Request) {
	components := c.Components.List()

	statuses := make([]*model.ComponentStatus, 0, len(components))
	for _, component := range components {
		statuses = append(statuses, model.NewComponentStatus(component))
	}

	writeJSON(c, w, http.StatusOK, statuses)
}

func handleGetUpdateState(c *Context, w http.ResponseWriter, r *http.Request) {
	component := lookupComponent(c, w, r)
	if component == nil {
		return
	}

	state, err := c.Checker.GetUpdateState(component)
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to fetch update state of %s", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if state == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(c, w, http.StatusOK, state)
}

func handleResetUpdateState(c *Context, w http.ResponseWriter, r *http.Request) {
	component := lookupComponent(c, w, r)
	if component == nil {
		return
	}

	err := c.Checker.ResetUpdateState(component)
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to reset update state of %s", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleGetUpdate(c *Context, w http.ResponseWriter, r *http.Request) {
	component := lookupComponent(c, w, r)
	if component == nil {
		return
	}

	update, err := c.Checker.GetUpdate(component, installedVersion(c, component, r))
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to fetch update of %s", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if update == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(c, w, http.StatusOK, update)
}

func handleCheckForUpdates(c *Context, w http.ResponseWriter, r *http.Request) {
	component := lookupComponent(c, w, r)
	if component == nil {
		return
	}

	update, err := c.Checker.CheckForUpdates(r.Context(), component, installedVersion(c, component, r))
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to check %s for updates", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	c.Logger.Debugf("Checked %s for updates", component.Slug)
	writeJSON(c, w, http.StatusOK, update)
}

func handleGetTranslationUpdates(c *Context, w http.ResponseWriter, r *http.Request) {
	component := lookupComponent(c, w, r)
	if component == nil {
		return
	}

	translations, err := c.Checker.GetTranslationUpdates(component)
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to fetch translation updates of %s", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if translations == nil {
		translations = []model.TranslationRecord{}
	}

	writeJSON(c, w, http.StatusOK, translations)
}

func handleClearTranslationUpdates(c *Context, w http.ResponseWriter, r *http.Request) {
	component := lookupComponent(c, w, r)
	if component == nil {
		return
	}

	err := c.Checker.ClearCachedTranslationUpdates(component)
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to clear translation updates of %s", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleInjectUpdates(c *Context, w http.ResponseWriter, r *http.Request) {
	component := lookupComponent(c, w, r)
	if component == nil {
		return
	}

	defer r.Body.Close()
	list, err := model.NewHostUpdateListFromReader(r.Body)
	if err != nil {
		c.Logger.WithError(err).Error("failed to unmarshal JSON from request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	list, err = c.Checker.InjectUpdate(list, component, installedVersion(c, component, r))
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to inject update of %s", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	list, err = c.Checker.InjectTranslationUpdates(list, component)
	if err != nil {
		c.Logger.WithError(err).Errorf("failed to inject translation updates of %s", component.Slug)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = &model.HostUpdateList{}
	}

	writeJSON(c, w, http.StatusOK, list)
}
