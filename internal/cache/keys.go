package cache

// File keys
func KeyFile(fileID string) string {
	return Key("files", fileID)
}

// User keys
func KeyUser(email string) string {
	return Key("users", email)
}
