package enums

import "fmt"

// NotificationCategory groups user-facing notifications.
type NotificationCategory string

const (
	NotificationCategoryOrder NotificationCategory = "order"
)

var validNotificationCategories = []NotificationCategory{
	NotificationCategoryOrder,
}

// IsValid checks whether the given category matches the canonical enum.
func (n NotificationCategory) IsValid() bool {
	for _, candidate := range validNotificationCategories {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationCategory converts raw strings into NotificationCategory.
func ParseNotificationCategory(value string) (NotificationCategory, error) {
	for _, candidate := range validNotificationCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification category %q", value)
}
