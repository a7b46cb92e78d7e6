package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mattermost/updatechecker/model"
)

// Register adds the API routes to rootRouter.
func Register(rootRouter *mux.Router, context *Context) {
	addContext := func(handler contextHandlerFunc) *contextHandler {
		return newContextHandler(context, handler)
	}

	rootRouter.Handle("/components", addContext(handleListComponents)).Methods("GET")

	componentRouter := rootRouter.PathPrefix("/component/{slug}").Subrouter()
	componentRouter.Handle("/state", addContext(handleGetUpdateState)).Methods("GET")
	componentRouter.Handle("/state", addContext(handleResetUpdateState)).Methods("DELETE")
	componentRouter.Handle("/update", addContext(handleGetUpdate)).Methods("GET")
	componentRouter.Handle("/check", addContext(handleCheckForUpdates)).Methods("POST")
	componentRouter.Handle("/translations", addContext(handleGetTranslationUpdates)).Methods("GET")
	componentRouter.Handle("/translations", addContext(handleClearTranslationUpdates)).Methods("DELETE")
	componentRouter.Handle("/inject", addContext(handleInjectUpdates)).Methods("POST")
	componentRouter.Handle("/normalize", addContext(handleNormalize)).Methods("POST")
}

// lookupComponent returns the component named in the request path, writing
// a 404 and returning nil when it is not registered.
func lookupComponent(c *Context, w http.ResponseWriter, r *http.Request) *model.Component {
	slug := mux.Vars(r)["slug"]
	component := c.Components.Get(slug)
	if component == nil {
		c.Logger.Debugf("component %s is not registered", slug)
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	return component
}

// installedVersion returns the version given in the "installed" query
// parameter, falling back to reading it from the installed component.
func installedVersion(c *Context, component *model.Component, r *http.Request) string {
	if installed := r.URL.Query().Get("installed"); installed != "" {
		return installed
	}
	if c.Versions == nil {
		return ""
	}

	installed, err := c.Versions.InstalledVersion(component)
	if err != nil {
		c.Logger.WithError(err).Debugf("failed to read installed version of %s", component.Slug)
		return ""
	}
	return installed
}

// outputJSON is a helper method to write the given data as JSON to the given writer.
//
// It only logs an error if one occurs, rather than returning, since there is no point in trying
// to send a new status code back to the client once the body has started sending.
func outputJSON(c *Context, w io.Writer, data interface{}) {
	encoder := json.NewEncoder(w)
	err := encoder.Encode(data)
	if err != nil {
		c.Logger.WithError(err).Error("failed to encode result")
	}
}

func writeJSON(c *Context, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	outputJSON(c, w, data)
}
