package checker

import (
	"github.com/mattermost/updatechecker/internal/hooks"
	"github.com/mattermost/updatechecker/model"
)

// InjectUpdate merges the current update of component into the host's update
// list, or removes a stale entry when no update should be shown. A nil list
// is treated as empty.
func (c *Checker) InjectUpdate(list *model.HostUpdateList, component *model.Component, installedVersion string) (*model.HostUpdateList, error) {
	update, err := c.GetUpdate(component, installedVersion)
	if err != nil {
		return list, err
	}
	if !c.ShowUpdates(component.Identity) {
		update = nil
	}
	if update != nil {
		update = c.hooks.Apply(component.UniqueName(hooks.PreInjectUpdate), update, nil)
	}

	key := component.UpdateListKey()
	if update == nil {
		if list != nil && list.Response != nil {
			delete(list.Response, key)
		}
		return list, nil
	}

	if list == nil {
		list = &model.HostUpdateList{}
	}
	if list.Response == nil {
		list.Response = make(map[string]map[string]interface{})
	}
	list.Response[key] = update.ToHostFormat(component)

	return list, nil
}

// InjectTranslationUpdates replaces the translation entries of component in
// the host's update list with its cached translation updates. The list is
// returned unchanged when there are none.
func (c *Checker) InjectTranslationUpdates(list *model.HostUpdateList, component *model.Component) (*model.HostUpdateList, error) {
	translations, err := c.GetTranslationUpdates(component)
	if err != nil {
		return list, err
	}
	if len(translations) == 0 {
		return list, nil
	}

	if list == nil {
		list = &model.HostUpdateList{}
	}

	kept := make([]map[string]interface{}, 0, len(list.Translations)+len(translations))
	for _, entry := range list.Translations {
		if !isTranslationOf(entry, component) {
			kept = append(kept, entry)
		}
	}
	for i := range translations {
		kept = append(kept, translations[i].ToHostFormat(component))
	}
	list.Translations = kept

	return list, nil
}

func isTranslationOf(entry map[string]interface{}, component *model.Component) bool {
	entryType, ok := entry["type"].(string)
	if !ok {
		return false
	}
	slug, ok := entry["slug"].(string)
	if !ok {
		return false
	}
	return entryType == string(component.Type) && slug == component.DirectoryName
}
