package media

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ytget/video-downloader/internal/model"
)

// UnknownSite is reported for URLs outside the site table
const (
	UnknownSite   = "Unknown"
	UnknownDomain = "auto-detect"
)

type site struct {
	domain string
	name   string
}

// Popular sites. The engine supports many more; unknown hosts are still
// attempted. More specific domains come first.
var sites = []site{
	{"music.youtube.com", "YouTube Music"},
	{"youtube.com", "YouTube"},
	{"youtu.be", "YouTube"},
	{"facebook.com", "Facebook"},
	{"fb.watch", "Facebook"},
	{"twitter.com", "Twitter/X"},
	{"x.com", "Twitter/X"},
	{"instagram.com", "Instagram"},
	{"tiktok.com", "TikTok"},
	{"vimeo.com", "Vimeo"},
	{"dailymotion.com", "Dailymotion"},
	{"twitch.tv", "Twitch"},
	{"reddit.com", "Reddit"},
	{"soundcloud.com", "SoundCloud"},
	{"bilibili.com", "Bilibili"},
	{"nicovideo.jp", "Niconico"},
	{"pornhub.com", "Pornhub"},
	{"xvideos.com", "XVideos"},
	{"rumble.com", "Rumble"},
	{"bitchute.com", "BitChute"},
	{"odysee.com", "Odysee"},
	{"bandcamp.com", "Bandcamp"},
	{"mixcloud.com", "Mixcloud"},
}

// DetectSite maps a URL to a known site by its host
func DetectSite(rawURL string) model.SiteInfo {
	host := hostOf(rawURL)
	if host != "" {
		for _, s := range sites {
			if host == s.domain || strings.HasSuffix(host, "."+s.domain) {
				return model.SiteInfo{Detected: true, Site: s.name, Domain: s.domain}
			}
		}
	}
	return model.SiteInfo{Detected: false, Site: UnknownSite, Domain: UnknownDomain}
}

// SupportedSites returns the distinct site names, sorted
func SupportedSites() []string {
	seen := make(map[string]struct{}, len(sites))
	names := make([]string, 0, len(sites))
	for _, s := range sites {
		if _, ok := seen[s.name]; ok {
			continue
		}
		seen[s.name] = struct{}{}
		names = append(names, s.name)
	}
	sort.Strings(names)
	return names
}

func hostOf(rawURL string) string {
	raw := strings.TrimSpace(strings.ToLower(rawURL))
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
