package domain

import "strings"

// Well-known broadcast channels. Channels are not stored anywhere; they exist
// only as the membership sets held by the hub.
const (
	ChannelGlobal          = "global"
	ChannelProducts        = "products"
	ChannelDashboard       = "dashboard"
	ChannelAlerts          = "alerts"
	ChannelOrders          = "orders"
	ChannelInventory       = "inventory"
	ChannelRecommendations = "recommendations"
	ChannelSystem          = "system"
)

// Parametric channel prefixes.
const (
	ProductChannelPrefix = "product."
	UserChannelPrefix    = "user."
)

var fixedChannels = map[string]struct{}{
	ChannelGlobal:          {},
	ChannelProducts:        {},
	ChannelDashboard:       {},
	ChannelAlerts:          {},
	ChannelOrders:          {},
	ChannelInventory:       {},
	ChannelRecommendations: {},
	ChannelSystem:          {},
}

// ProductChannel returns the per-entity channel for a single product.
func ProductChannel(productID string) string {
	return ProductChannelPrefix + strings.TrimSpace(productID)
}

// UserChannel returns the private channel for a single user. Every admitted
// connection auto-joins its own user channel, which is what makes
// SendToUser work.
func UserChannel(userID string) string {
	return UserChannelPrefix + strings.TrimSpace(userID)
}

// DefaultChannels lists the channels every connection joins at admission.
func DefaultChannels(userID string) []string {
	return []string{ChannelGlobal, ChannelDashboard, UserChannel(userID)}
}

// IsValidChannel reports whether a client may subscribe to the given channel:
// one of the fixed well-known names, or a parametric product/user channel.
func IsValidChannel(channel string) bool {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return false
	}
	if _, ok := fixedChannels[channel]; ok {
		return true
	}
	if strings.HasPrefix(channel, ProductChannelPrefix) && channel != ProductChannelPrefix {
		return true
	}
	if strings.HasPrefix(channel, UserChannelPrefix) && channel != UserChannelPrefix {
		return true
	}
	return false
}
