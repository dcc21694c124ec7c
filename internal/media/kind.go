package media

import "fmt"

// Kind describes the flavour of output a download request is asking
// for. It decides the format yt-dlp is asked for, the codecs used when
// trimming, and the content type of the final HTTP response.
type Kind int

const (
	Video Kind = iota
	Audio
)

func (kind Kind) String() string {
	if kind == Audio {
		return "audio"
	}

	return "video"
}

// MimeType returns the content type of the container this kind of
// output is encoded in to (audio is always delivered as MP3, video
// as MP4).
func (kind Kind) MimeType() string {
	if kind == Audio {
		return "audio/mpeg"
	}

	return "video/mp4"
}

// ParseKind maps the wire representation of a kind to its enum value.
// An empty string defaults to Video.
func ParseKind(raw string) (Kind, error) {
	switch raw {
	case "", "video":
		return Video, nil
	case "audio":
		return Audio, nil
	default:
		return Video, fmt.Errorf("unknown media kind '%s'", raw)
	}
}
