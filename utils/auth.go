package utils

// Permission levels
const (
	DeveloperPermission = "developer"
	ModeratorPermission = "moderator"
	GuestPermission     = "guest"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level for a member given
// their role ids and the configured moderator roles and developer ids.
func CheckPermission(memberRoleIDs []string, userID string, moderatorRoleIDs, developerUserIDs []string) string {
	if contains(developerUserIDs, userID) {
		return DeveloperPermission
	}

	for _, roleID := range memberRoleIDs {
		if contains(moderatorRoleIDs, roleID) {
			return ModeratorPermission
		}
	}

	return GuestPermission
}
