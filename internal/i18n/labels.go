package i18n

// Action identifies a main-menu action independent of the active locale.
type Action string

const (
	ActionViewJobs   Action = "view_jobs"
	ActionMyCart     Action = "my_cart"
	ActionChangeLang Action = "change_lang"
)

var menuLabelKeys = map[Action]string{
	ActionViewJobs:   "menu_view_jobs",
	ActionMyCart:     "menu_my_cart",
	ActionChangeLang: "menu_change_lang",
}

// MenuActions inverts the (locale, action) → label tables into a single
// label → action map, so a reply-keyboard press routes to its action no
// matter which locale rendered the button.
func (b *Bundle) MenuActions() map[string]Action {
	inverted := make(map[string]Action)
	for lang := range b.tables {
		for action, key := range menuLabelKeys {
			label := b.T(lang, key, nil)
			if label != key {
				inverted[label] = action
			}
		}
	}
	return inverted
}

// MenuLabel returns the localized label for a main-menu action.
func (b *Bundle) MenuLabel(lang string, action Action) string {
	return b.T(lang, menuLabelKeys[action], nil)
}
