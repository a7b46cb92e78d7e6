// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/updatechecker/internal/checker"
	mock_api "github.com/mattermost/updatechecker/internal/mocks/api"
	"github.com/mattermost/updatechecker/internal/normalizer"
	"github.com/mattermost/updatechecker/internal/testlib"
	"github.com/mattermost/updatechecker/model"
)

type testAPI struct {
	server     *httptest.Server
	checker    *mock_api.MockChecker
	normalizer *mock_api.MockNormalizer
	versions   *mock_api.MockVersionReader
	component  *model.Component
}

func makeTestAPI(t *testing.T) *testAPI {
	mockController := gomock.NewController(t)

	identity, err := model.NewIdentity(model.PluginType, "my-plugin", "")
	require.NoError(t, err)
	component := &model.Component{
		Identity:    identity,
		MetadataURL: "https://example.com/my-plugin.json",
	}
	components := checker.NewComponents()
	require.NoError(t, components.Add(component))

	api := &testAPI{
		checker:    mock_api.NewMockChecker(mockController),
		normalizer: mock_api.NewMockNormalizer(mockController),
		versions:   mock_api.NewMockVersionReader(mockController),
		component:  component,
	}

	router := mux.NewRouter()
	Register(router, &Context{
		Checker:    api.checker,
		Components: components,
		Normalizer: api.normalizer,
		Versions:   api.versions,
		Logger:     testlib.MakeLogger(t),
	})
	api.server = httptest.NewServer(router)
	t.Cleanup(api.server.Close)

	return api
}

func (a *testAPI) url(path string) string {
	return a.server.URL + path
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListComponents(t *testing.T) {
	api := makeTestAPI(t)

	resp, err := http.Get(api.url("/components"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	statuses, err := model.NewComponentStatusListFromReader(resp.Body)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "my-plugin", statuses[0].Slug)
	assert.Equal(t, model.PluginType, statuses[0].Type)
	assert.Equal(t, "0s", statuses[0].CheckPeriod)
}

func TestUpdateState(t *testing.T) {
	api := makeTestAPI(t)

	t.Run("unknown component", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, api.url("/component/bogus/state"), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("never checked", func(t *testing.T) {
		api.checker.EXPECT().
			GetUpdateState(api.component).
			Return(nil, nil).
			Times(1)

		resp := doRequest(t, http.MethodGet, api.url("/component/my-plugin/state"), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("cached state", func(t *testing.T) {
		api.checker.EXPECT().
			GetUpdateState(api.component).
			Return(&model.UpdateCheckState{
				LastCheck:      100,
				CheckedVersion: "1.0",
				Update:         &model.UpdateRecord{Version: "2.0"},
			}, nil).
			Times(1)

		resp := doRequest(t, http.MethodGet, api.url("/component/my-plugin/state"), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		state, err := model.NewUpdateCheckStateFromReader(resp.Body)
		require.NoError(t, err)
		assert.EqualValues(t, 100, state.LastCheck)
		assert.Equal(t, "2.0", state.Update.Version)
	})

	t.Run("encounter an error from the store", func(t *testing.T) {
		api.checker.EXPECT().
			GetUpdateState(api.component).
			Return(nil, errors.New("problem talking to database")).
			Times(1)

		resp := doRequest(t, http.MethodGet, api.url("/component/my-plugin/state"), "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("reset", func(t *testing.T) {
		api.checker.EXPECT().
			ResetUpdateState(api.component).
			Return(nil).
			Times(1)

		resp := doRequest(t, http.MethodDelete, api.url("/component/my-plugin/state"), "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestGetUpdate(t *testing.T) {
	api := makeTestAPI(t)

	t.Run("installed version from the query", func(t *testing.T) {
		api.checker.EXPECT().
			GetUpdate(api.component, "1.0").
			Return(&model.UpdateRecord{Version: "2.0"}, nil).
			Times(1)

		resp := doRequest(t, http.MethodGet, api.url("/component/my-plugin/update?installed=1.0"), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		update, err := model.NewUpdateRecordFromReader(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "2.0", update.Version)
	})

	t.Run("installed version from the component", func(t *testing.T) {
		api.versions.EXPECT().
			InstalledVersion(api.component).
			Return("2.0", nil).
			Times(1)
		api.checker.EXPECT().
			GetUpdate(api.component, "2.0").
			Return(nil, nil).
			Times(1)

		resp := doRequest(t, http.MethodGet, api.url("/component/my-plugin/update"), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unreadable installed version", func(t *testing.T) {
		api.versions.EXPECT().
			InstalledVersion(api.component).
			Return("", errors.New("no such file")).
			Times(1)
		api.checker.EXPECT().
			GetUpdate(api.component, "").
			Return(nil, nil).
			Times(1)

		resp := doRequest(t, http.MethodGet, api.url("/component/my-plugin/update"), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCheckForUpdates(t *testing.T) {
	api := makeTestAPI(t)

	t.Run("update available", func(t *testing.T) {
		api.checker.EXPECT().
			CheckForUpdates(gomock.Any(), api.component, "1.0").
			Return(&model.UpdateRecord{Version: "1.1"}, nil).
			Times(1)

		resp := doRequest(t, http.MethodPost, api.url("/component/my-plugin/check?installed=1.0"), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		update, err := model.NewUpdateRecordFromReader(resp.Body)
		require.NoError(t, err)
		require.NotNil(t, update)
		assert.Equal(t, "1.1", update.Version)
	})

	t.Run("no update", func(t *testing.T) {
		api.checker.EXPECT().
			CheckForUpdates(gomock.Any(), api.component, "1.1").
			Return(nil, nil).
			Times(1)

		resp := doRequest(t, http.MethodPost, api.url("/component/my-plugin/check?installed=1.1"), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		update, err := model.NewUpdateRecordFromReader(resp.Body)
		require.NoError(t, err)
		assert.Nil(t, update)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, api.url("/component/my-plugin/check"), "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestTranslationUpdates(t *testing.T) {
	api := makeTestAPI(t)

	t.Run("list", func(t *testing.T) {
		api.checker.EXPECT().
			GetTranslationUpdates(api.component).
			Return([]model.TranslationRecord{{Language: "de_DE", Updated: "100"}}, nil).
			Times(1)

		resp := doRequest(t, http.MethodGet, api.url("/component/my-plugin/translations"), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		translations, err := model.NewTranslationListFromReader(resp.Body)
		require.NoError(t, err)
		require.Len(t, translations, 1)
		assert.Equal(t, "de_DE", translations[0].Language)
	})

	t.Run("clear", func(t *testing.T) {
		api.checker.EXPECT().
			ClearCachedTranslationUpdates(api.component).
			Return(nil).
			Times(1)

		resp := doRequest(t, http.MethodDelete, api.url("/component/my-plugin/translations"), "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("clear fails", func(t *testing.T) {
		api.checker.EXPECT().
			ClearCachedTranslationUpdates(api.component).
			Return(errors.New("problem talking to database")).
			Times(1)

		resp := doRequest(t, http.MethodDelete, api.url("/component/my-plugin/translations"), "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestInjectUpdates(t *testing.T) {
	api := makeTestAPI(t)

	t.Run("merged list", func(t *testing.T) {
		merged := &model.HostUpdateList{
			Response: map[string]map[string]interface{}{
				"my-plugin": {"new_version": "2.0"},
			},
		}
		gomock.InOrder(
			api.checker.EXPECT().
				InjectUpdate(gomock.Any(), api.component, "1.0").
				DoAndReturn(func(list *model.HostUpdateList, component *model.Component, installedVersion string) (*model.HostUpdateList, error) {
					require.NotNil(t, list)
					assert.Contains(t, list.Response, "other")
					return merged, nil
				}),
			api.checker.EXPECT().
				InjectTranslationUpdates(merged, api.component).
				Return(merged, nil),
		)

		resp := doRequest(t, http.MethodPost, api.url("/component/my-plugin/inject?installed=1.0"), `{"response":{"other":{"new_version":"1.0"}}}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		list, err := model.NewHostUpdateListFromReader(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "2.0", list.Response["my-plugin"]["new_version"])
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, api.url("/component/my-plugin/inject?installed=1.0"), `{"response":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestNormalize(t *testing.T) {
	api := makeTestAPI(t)
	body := func(extra string) string {
		return fmt.Sprintf(`{"Source":"/tmp/x/my-plugin-main","RemoteSource":"/tmp/x"%s}`, extra)
	}

	t.Run("renamed", func(t *testing.T) {
		api.normalizer.EXPECT().
			NormalizeFor(normalizer.UpgradeTarget(api.component.Identity), api.component.Identity, "/tmp/x/my-plugin-main", "/tmp/x").
			Return("/tmp/x/my-plugin", nil).
			Times(1)

		resp := doRequest(t, http.MethodPost, api.url("/component/my-plugin/normalize"), body(""))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		normalized, err := model.NewNormalizeResponseFromReader(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/x/my-plugin", normalized.Source)
	})

	t.Run("other component being upgraded", func(t *testing.T) {
		api.normalizer.EXPECT().
			NormalizeFor(normalizer.UpgradeTarget{Type: model.ThemeType, DirectoryName: "a-theme"}, api.component.Identity, "/tmp/x/my-plugin-main", "/tmp/x").
			Return("/tmp/x/my-plugin-main", nil).
			Times(1)

		resp := doRequest(t, http.MethodPost, api.url("/component/my-plugin/normalize"), body(`,"UpgradingType":"theme","UpgradingDirectory":"a-theme"`))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad archive", func(t *testing.T) {
		api.normalizer.EXPECT().
			NormalizeFor(gomock.Any(), api.component.Identity, "/tmp/x/my-plugin-main", "/tmp/x").
			Return("", &normalizer.NormalizeError{Code: normalizer.CodeBadArchiveStructure, Message: "bad archive"}).
			Times(1)

		resp := doRequest(t, http.MethodPost, api.url("/component/my-plugin/normalize"), body(""))
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		errResponse, err := model.NewErrorResponseFromReader(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, normalizer.CodeBadArchiveStructure, errResponse.Code)
		assert.Equal(t, "bad archive", errResponse.Message)
	})

	t.Run("missing source", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, api.url("/component/my-plugin/normalize"), `{"RemoteSource":"/tmp/x"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
