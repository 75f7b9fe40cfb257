package messages

// Invitation is the out-of-band payload shared by an inviter, carrying
// everything the invitee needs to reach back: the inviter's identifier,
// the single-use nonce binding the eventual response to the link, and the
// network endpoint to respond to.
type Invitation struct {
	Id         string `json:"id"`
	Label      string `json:"label"`
	Identifier string `json:"identifier"`
	Nonce      string `json:"nonce"`
	Endpoint   string `json:"endpoint"`
}
