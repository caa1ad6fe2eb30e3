package wire

// Message is a decoded envelope payload.
type Message interface {
	record
	Type() MessageType
}

type User struct {
	UserID      string
	Username    string
	DisplayName string
}

func (x *User) marshal(e *encoder) {
	e.string(1, x.UserID)
	e.string(2, x.Username)
	e.string(3, x.DisplayName)
}

func (x *User) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.UserID = d.string()
		case 2:
			x.Username = d.string()
		case 3:
			x.DisplayName = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}

// GameRequest carries the settings a seeker asks for.
type GameRequest struct {
	Lexicon            string
	InitialTimeSeconds int32
	IncrementSeconds   int32
	ChallengeRule      ChallengeRule
	Rated              bool
	RequestID          string
	MaxOvertimeMinutes int32
}

func (x *GameRequest) marshal(e *encoder) {
	e.string(1, x.Lexicon)
	e.int32(2, x.InitialTimeSeconds)
	e.int32(3, x.IncrementSeconds)
	e.int32(4, int32(x.ChallengeRule))
	e.bool(5, x.Rated)
	e.string(6, x.RequestID)
	e.int32(7, x.MaxOvertimeMinutes)
}

func (x *GameRequest) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.Lexicon = d.string()
		case 2:
			x.InitialTimeSeconds = d.int32()
		case 3:
			x.IncrementSeconds = d.int32()
		case 4:
			x.ChallengeRule = ChallengeRule(d.int32())
		case 5:
			x.Rated = d.bool()
		case 6:
			x.RequestID = d.string()
		case 7:
			x.MaxOvertimeMinutes = d.int32()
		default:
			d.skip()
		}
	}
	return d.err
}

type SeekRequest struct {
	GameRequest *GameRequest
	User        *User
}

func (*SeekRequest) Type() MessageType { return TypeSeekRequest }

func (x *SeekRequest) marshal(e *encoder) {
	if x.GameRequest != nil {
		e.message(1, x.GameRequest)
	}
	if x.User != nil {
		e.message(2, x.User)
	}
}

func (x *SeekRequest) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.GameRequest = new(GameRequest)
			d.message(x.GameRequest)
		case 2:
			x.User = new(User)
			d.message(x.User)
		default:
			d.skip()
		}
	}
	return d.err
}

type SeekRequests struct {
	Requests []*SeekRequest
}

func (*SeekRequests) Type() MessageType { return TypeSeekRequests }

func (x *SeekRequests) marshal(e *encoder) {
	for _, r := range x.Requests {
		if r != nil {
			e.message(1, r)
		}
	}
}

func (x *SeekRequests) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			r := new(SeekRequest)
			d.message(r)
			x.Requests = append(x.Requests, r)
		default:
			d.skip()
		}
	}
	return d.err
}

type MatchRequest struct {
	GameRequest   *GameRequest
	User          *User
	ReceivingUser *User
}

func (*MatchRequest) Type() MessageType { return TypeMatchRequest }

func (x *MatchRequest) marshal(e *encoder) {
	if x.GameRequest != nil {
		e.message(1, x.GameRequest)
	}
	if x.User != nil {
		e.message(2, x.User)
	}
	if x.ReceivingUser != nil {
		e.message(3, x.ReceivingUser)
	}
}

func (x *MatchRequest) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.GameRequest = new(GameRequest)
			d.message(x.GameRequest)
		case 2:
			x.User = new(User)
			d.message(x.User)
		case 3:
			x.ReceivingUser = new(User)
			d.message(x.ReceivingUser)
		default:
			d.skip()
		}
	}
	return d.err
}

type ErrorMessage struct {
	Message string
}

func (*ErrorMessage) Type() MessageType { return TypeErrorMessage }

func (x *ErrorMessage) marshal(e *encoder) { e.string(1, x.Message) }

func (x *ErrorMessage) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.Message = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}

type NewGameEvent struct {
	GameID       string
	RequesterCID string
	AccepterCID  string
}

func (*NewGameEvent) Type() MessageType { return TypeNewGameEvent }

func (x *NewGameEvent) marshal(e *encoder) {
	e.string(1, x.GameID)
	e.string(2, x.RequesterCID)
	e.string(3, x.AccepterCID)
}

func (x *NewGameEvent) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.GameID = d.string()
		case 2:
			x.RequesterCID = d.string()
		case 3:
			x.AccepterCID = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}

type GameAcceptedEvent struct {
	RequestID string
	Client    string
}

func (*GameAcceptedEvent) Type() MessageType { return TypeGameAcceptedEvent }

func (x *GameAcceptedEvent) marshal(e *encoder) {
	e.string(1, x.RequestID)
	e.string(2, x.Client)
}

func (x *GameAcceptedEvent) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.RequestID = d.string()
		case 2:
			x.Client = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}

type ClientGameplayEvent struct {
	EventType      ClientEventType
	GameID         string
	PositionCoords string
	Tiles          string
}

func (*ClientGameplayEvent) Type() MessageType { return TypeClientGameplayEvent }

func (x *ClientGameplayEvent) marshal(e *encoder) {
	e.int32(1, int32(x.EventType))
	e.string(2, x.GameID)
	e.string(3, x.PositionCoords)
	e.string(4, x.Tiles)
}

func (x *ClientGameplayEvent) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.EventType = ClientEventType(d.int32())
		case 2:
			x.GameID = d.string()
		case 3:
			x.PositionCoords = d.string()
		case 4:
			x.Tiles = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}

// GameEvent is one entry of a game history. Turns are made of one or more
// of these.
type GameEvent struct {
	Nickname        string
	Type            GameEventType
	Cumulative      int32
	Row             int32
	Column          int32
	Position        string
	PlayedTiles     string
	Exchanged       string
	Rack            string
	Score           int32
	Bonus           int32
	EndRackPoints   int32
	LostScore       int32
	MillisRemaining int32
}

func (x *GameEvent) marshal(e *encoder) {
	e.string(1, x.Nickname)
	e.int32(2, int32(x.Type))
	e.int32(3, x.Cumulative)
	e.int32(4, x.Row)
	e.int32(5, x.Column)
	e.string(6, x.Position)
	e.string(7, x.PlayedTiles)
	e.string(8, x.Exchanged)
	e.string(9, x.Rack)
	e.int32(10, x.Score)
	e.int32(11, x.Bonus)
	e.int32(12, x.EndRackPoints)
	e.int32(13, x.LostScore)
	e.int32(14, x.MillisRemaining)
}

func (x *GameEvent) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.Nickname = d.string()
		case 2:
			x.Type = GameEventType(d.int32())
		case 3:
			x.Cumulative = d.int32()
		case 4:
			x.Row = d.int32()
		case 5:
			x.Column = d.int32()
		case 6:
			x.Position = d.string()
		case 7:
			x.PlayedTiles = d.string()
		case 8:
			x.Exchanged = d.string()
		case 9:
			x.Rack = d.string()
		case 10:
			x.Score = d.int32()
		case 11:
			x.Bonus = d.int32()
		case 12:
			x.EndRackPoints = d.int32()
		case 13:
			x.LostScore = d.int32()
		case 14:
			x.MillisRemaining = d.int32()
		default:
			d.skip()
		}
	}
	return d.err
}

type GameTurn struct {
	Events []*GameEvent
}

func (x *GameTurn) marshal(e *encoder) {
	for _, ev := range x.Events {
		if ev != nil {
			e.message(1, ev)
		}
	}
}

func (x *GameTurn) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			ev := new(GameEvent)
			d.message(ev)
			x.Events = append(x.Events, ev)
		default:
			d.skip()
		}
	}
	return d.err
}

type PlayerInfo struct {
	Nickname string
	RealName string
}

func (x *PlayerInfo) marshal(e *encoder) {
	e.string(1, x.Nickname)
	e.string(2, x.RealName)
}

func (x *PlayerInfo) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.Nickname = d.string()
		case 2:
			x.RealName = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}

type GameHistory struct {
	Turns          []*GameTurn
	Players        []*PlayerInfo
	UID            string
	Lexicon        string
	LastKnownRacks []string
	FinalScores    []int32
	ChallengeRule  ChallengeRule
}

func (x *GameHistory) marshal(e *encoder) {
	for _, t := range x.Turns {
		if t != nil {
			e.message(1, t)
		}
	}
	for _, p := range x.Players {
		if p != nil {
			e.message(2, p)
		}
	}
	e.string(3, x.UID)
	e.string(4, x.Lexicon)
	e.strings(5, x.LastKnownRacks)
	e.int32s(6, x.FinalScores)
	e.int32(7, int32(x.ChallengeRule))
}

func (x *GameHistory) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			t := new(GameTurn)
			d.message(t)
			x.Turns = append(x.Turns, t)
		case 2:
			p := new(PlayerInfo)
			d.message(p)
			x.Players = append(x.Players, p)
		case 3:
			x.UID = d.string()
		case 4:
			x.Lexicon = d.string()
		case 5:
			x.LastKnownRacks = append(x.LastKnownRacks, d.string())
		case 6:
			x.FinalScores = d.int32s(x.FinalScores)
		case 7:
			x.ChallengeRule = ChallengeRule(d.int32())
		default:
			d.skip()
		}
	}
	return d.err
}

type GameHistoryRefresher struct {
	History            *GameHistory
	TimePlayer1        int32
	TimePlayer2        int32
	MaxOvertimeMinutes int32
}

func (*GameHistoryRefresher) Type() MessageType { return TypeGameHistoryRefresher }

func (x *GameHistoryRefresher) marshal(e *encoder) {
	if x.History != nil {
		e.message(1, x.History)
	}
	e.int32(2, x.TimePlayer1)
	e.int32(3, x.TimePlayer2)
	e.int32(4, x.MaxOvertimeMinutes)
}

func (x *GameHistoryRefresher) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.History = new(GameHistory)
			d.message(x.History)
		case 2:
			x.TimePlayer1 = d.int32()
		case 3:
			x.TimePlayer2 = d.int32()
		case 4:
			x.MaxOvertimeMinutes = d.int32()
		default:
			d.skip()
		}
	}
	return d.err
}

type ServerGameplayEvent struct {
	Event         *GameEvent
	GameID        string
	NewRack       string
	TimeRemaining int32
	Playing       PlayState
}

func (*ServerGameplayEvent) Type() MessageType { return TypeServerGameplayEvent }

func (x *ServerGameplayEvent) marshal(e *encoder) {
	if x.Event != nil {
		e.message(1, x.Event)
	}
	e.string(2, x.GameID)
	e.string(3, x.NewRack)
	e.int32(4, x.TimeRemaining)
	e.int32(5, int32(x.Playing))
}

func (x *ServerGameplayEvent) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.Event = new(GameEvent)
			d.message(x.Event)
		case 2:
			x.GameID = d.string()
		case 3:
			x.NewRack = d.string()
		case 4:
			x.TimeRemaining = d.int32()
		case 5:
			x.Playing = PlayState(d.int32())
		default:
			d.skip()
		}
	}
	return d.err
}

type GameEndedEvent struct {
	Scores     map[string]int32
	NewRatings map[string]int32
	EndReason  GameEndReason
	Winner     string
	Loser      string
	Tie        bool
}

func (*GameEndedEvent) Type() MessageType { return TypeGameEndedEvent }

func (x *GameEndedEvent) marshal(e *encoder) {
	e.stringInt32Map(1, x.Scores)
	e.stringInt32Map(2, x.NewRatings)
	e.int32(3, int32(x.EndReason))
	e.string(4, x.Winner)
	e.string(5, x.Loser)
	e.bool(6, x.Tie)
}

func (x *GameEndedEvent) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			k, v := d.entry()
			if x.Scores == nil {
				x.Scores = make(map[string]int32)
			}
			x.Scores[k] = v
		case 2:
			k, v := d.entry()
			if x.NewRatings == nil {
				x.NewRatings = make(map[string]int32)
			}
			x.NewRatings[k] = v
		case 3:
			x.EndReason = GameEndReason(d.int32())
		case 4:
			x.Winner = d.string()
		case 5:
			x.Loser = d.string()
		case 6:
			x.Tie = d.bool()
		default:
			d.skip()
		}
	}
	return d.err
}

type ServerChallengeResultEvent struct {
	Valid         bool
	Challenger    string
	ChallengeRule ChallengeRule
	ReturnedTiles string
}

func (*ServerChallengeResultEvent) Type() MessageType { return TypeServerChallengeResultEvent }

func (x *ServerChallengeResultEvent) marshal(e *encoder) {
	e.bool(1, x.Valid)
	e.string(2, x.Challenger)
	e.int32(3, int32(x.ChallengeRule))
	e.string(4, x.ReturnedTiles)
}

func (x *ServerChallengeResultEvent) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.Valid = d.bool()
		case 2:
			x.Challenger = d.string()
		case 3:
			x.ChallengeRule = ChallengeRule(d.int32())
		case 4:
			x.ReturnedTiles = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}

type RegisterRealm struct {
	Realm string
}

func (*RegisterRealm) Type() MessageType { return TypeRegisterRealm }

func (x *RegisterRealm) marshal(e *encoder) { e.string(1, x.Realm) }

func (x *RegisterRealm) unmarshal(b []byte) error { return unmarshalRealm(b, &x.Realm) }

type DeregisterRealm struct {
	Realm string
}

func (*DeregisterRealm) Type() MessageType { return TypeDeregisterRealm }

func (x *DeregisterRealm) marshal(e *encoder) { e.string(1, x.Realm) }

func (x *DeregisterRealm) unmarshal(b []byte) error { return unmarshalRealm(b, &x.Realm) }

func unmarshalRealm(b []byte, realm *string) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			*realm = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}

type TimedOut struct {
	GameID string
	UserID string
}

func (*TimedOut) Type() MessageType { return TypeTimedOut }

func (x *TimedOut) marshal(e *encoder) {
	e.string(1, x.GameID)
	e.string(2, x.UserID)
}

func (x *TimedOut) unmarshal(b []byte) error {
	d := decoder{b: b}
	for d.next() {
		switch d.num {
		case 1:
			x.GameID = d.string()
		case 2:
			x.UserID = d.string()
		default:
			d.skip()
		}
	}
	return d.err
}
