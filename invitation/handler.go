package invitation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/wzwerch/sovrin/domain/messages"
)

const invParam = `inv`

// OOBService encodes link invitations into shareable URLs and parses them
// back. The invitation carries the inviter's identifier, the single-use
// nonce and the endpoint to respond to.
type OOBService struct {
	invEndpoint string
}

func NewOOBService(invEndpoint string) *OOBService {
	return &OOBService{invEndpoint: invEndpoint}
}

func (o *OOBService) CreateInv(label, identifier, nonce string) (string, error) {
	inv := messages.Invitation{
		Id:         uuid.New().String(),
		Label:      label,
		Identifier: identifier,
		Nonce:      nonce,
		Endpoint:   o.invEndpoint,
	}

	byts, err := json.Marshal(inv)
	if err != nil {
		return ``, fmt.Errorf(`marshalling invitation failed - %v`, err)
	}

	return o.invEndpoint + `?` + invParam + `=` + base64.URLEncoding.EncodeToString(byts), nil
}

func (o *OOBService) ParseInv(invURL string) (inv messages.Invitation, err error) {
	encInv := invURL
	if u, err := url.Parse(invURL); err == nil {
		if vals, ok := u.Query()[invParam]; ok {
			encInv = vals[0]
		}
	}

	bytInv := make([]byte, base64.URLEncoding.DecodedLen(len(encInv)))
	if _, err = base64.URLEncoding.Decode(bytInv, []byte(encInv)); err != nil {
		return messages.Invitation{}, fmt.Errorf(`base64 url decode failed - %v`, err)
	}
	// removes redundant elements from the allocated byte slice
	bytInv = bytes.Trim(bytInv, "\x00")

	if err = json.Unmarshal(bytInv, &inv); err != nil {
		return messages.Invitation{}, fmt.Errorf(`received response is not a valid invitation - %v`, err)
	}

	if inv.Nonce == `` || inv.Identifier == `` {
		return messages.Invitation{}, fmt.Errorf(`invitation lacks a nonce or an identifier [%v]`, inv)
	}

	if inv.Endpoint == `` {
		return messages.Invitation{}, fmt.Errorf(`no endpoint found in invitation [%v]`, inv)
	}

	return inv, nil
}
