package models

// Well-known event ids used in decision event lists and custom tracking.
const (
	EventViewConversion              = 1
	EventClickConversion             = 2
	EventServerConversion            = 3
	EventUpvote                      = 10
	EventDownvote                    = 11
	EventDownvoteUninteresting       = 12
	EventDownvoteMisleading          = 13
	EventDownvoteOffensive           = 14
	EventDownvoteRepetitive          = 15
	EventLike                        = 20
	EventShare                       = 21
	EventComment                     = 22
	EventVisible                     = 30
	EventHover                       = 31
	EventExpand                      = 32
	EventShareFacebook               = 50
	EventShareTwitter                = 51
	EventSharePinterest              = 52
	EventShareReddit                 = 53
	EventShareEmail                  = 54
	EventVideoStart                  = 70
	EventVideoFirstQuartile          = 71
	EventVideoMidPoint               = 72
	EventVideoThirdQuartile          = 73
	EventVideoComplete               = 74
	EventVideoMute                   = 75
	EventVideoUnmute                 = 76
	EventVideoPause                  = 77
	EventVideoRewind                 = 78
	EventVideoResume                 = 79
	EventVideoFullScreen             = 80
	EventVideoExitFullScreen         = 81
	EventVideoExpandScreen           = 82
	EventVideoCollapse               = 83
	EventVideoAcceptInvitationLinear = 84
	EventVideoCloseLinear            = 85
	EventVideoSkip                   = 86
	EventVideoProgress               = 87
	EventCommentReply                = 101
	EventCommentUpvote               = 102
	EventCommentDownvote             = 103
	EventCustom01                    = 104
	EventCustom02                    = 105
	EventCustom03                    = 106
	EventCustom04                    = 107
	EventCustom05                    = 108
	EventCustom06                    = 109
	EventCustom07                    = 110
)

// Event is a trackable action attached to a decision, with the pixel URL the
// engine expects to be hit when it happens.
type Event struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// MatchedPoint is a geographic point the engine matched against the visitor's
// location.
type MatchedPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
