package riot

// Account is the response from /riot/account/v1/accounts/by-riot-id.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Team side identifiers used by Match-V5. Participant list order is not
// guaranteed to align with these; always partition by TeamID.
const (
	TeamIDBlue = 100
	TeamIDRed  = 200
)

// QueueRankedSolo is the Match-V5 queue filter for ranked solo/duo.
const QueueRankedSolo = 420

// Match is the response from /lol/match/v5/matches/{matchId}, reduced to
// the fields the crawler consumes.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	QueueID      int                `json:"queueId"`
	GameVersion  string             `json:"gameVersion"`
	Participants []MatchParticipant `json:"participants"`
	Teams        []MatchTeam        `json:"teams"`
}

type MatchParticipant struct {
	PUUID          string `json:"puuid"`
	RiotIdGameName string `json:"riotIdGameName"`
	RiotIdTagline  string `json:"riotIdTagline"`
	ChampionName   string `json:"championName"`
	TeamID         int    `json:"teamId"`
	Win            bool   `json:"win"`
}

// MatchTeam carries the team-level outcome flag. This is the authoritative
// winner signal; a single participant's Win flag is not a reliable proxy
// for team side.
type MatchTeam struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}
