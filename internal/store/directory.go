package store

import (
	"encoding/json"
	"log"

	"github.com/renteasy/messenger/internal/localstore"
	"github.com/renteasy/messenger/internal/types"
)

// Directory reads the shared users blob, used to resolve a counterparty
// reference when auto-creating a conversation.
type Directory struct {
	log     *log.Logger
	storage localstore.Store
}

func NewDirectory(logger *log.Logger, storage localstore.Store) *Directory {
	return &Directory{log: logger, storage: storage}
}

func (d *Directory) Users() []types.User {
	raw, ok, err := d.storage.GetItem(UsersKey)
	if err != nil {
		d.log.Println("read users:", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var users []types.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		d.log.Println("corrupt users blob:", err)
		return nil
	}
	return users
}

// ResolveLandlord finds a landlord profile by id or display name. When
// the directory has no match a placeholder participant is synthesized so
// a conversation can still be created.
func (d *Directory) ResolveLandlord(idOrName, displayName string) types.Participant {
	for _, u := range d.Users() {
		if u.Id == idOrName || (idOrName != "" && u.Name == idOrName) || (displayName != "" && u.Name == displayName) {
			return types.Participant{Id: u.Id, Name: u.Name, Role: types.RoleLandlord}
		}
	}

	p := types.Participant{Id: idOrName, Name: displayName, Role: types.RoleLandlord}
	if p.Id == "" {
		p.Id = genId("landlord")
	}
	if p.Name == "" {
		if idOrName != "" {
			p.Name = idOrName
		} else {
			p.Name = "Landlord"
		}
	}
	return p
}

// ManagerFor returns the manager profile assigned to the listing, if any.
func (d *Directory) ManagerFor(listingId string) (types.User, bool) {
	for _, u := range d.Users() {
		if u.Role != types.RoleManager {
			continue
		}
		if containsToken(u.AssignedProperties, listingId) {
			return u, true
		}
	}
	return types.User{}, false
}
