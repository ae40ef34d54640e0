package preference

// PreferencesResponse is the caller's current language and theme
type PreferencesResponse struct {
	Language  string   `json:"language"`
	Theme     string   `json:"theme"`
	Languages []string `json:"languages"`
}

// SetLanguageRequest selects a language
type SetLanguageRequest struct {
	Language string `json:"language" binding:"required,language"`
}

// SetThemeRequest selects a theme
type SetThemeRequest struct {
	Theme string `json:"theme" binding:"required,theme"`
}
