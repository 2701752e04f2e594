package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Nick > GlobalName > Username
func resolveDisplayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// hasRole reports whether the member carries one of the given role IDs.
// Empty IDs never match.
func hasRole(member *discordgo.Member, roleIDs ...string) bool {
	if member == nil {
		return false
	}
	for _, have := range member.Roles {
		for _, want := range roleIDs {
			if want != "" && have == want {
				return true
			}
		}
	}
	return false
}
