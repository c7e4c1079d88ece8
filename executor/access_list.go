package executor

import (
	"github.com/ethereum/go-ethereum/common"
)

// accessList tracks the warm addresses and slots of a transaction (EIP-2929).
type accessList struct {
	addresses map[common.Address]map[common.Hash]struct{}
}

func newAccessList() *accessList {
	return &accessList{addresses: make(map[common.Address]map[common.Hash]struct{})}
}

func (al *accessList) ContainsAddress(address common.Address) bool {
	_, ok := al.addresses[address]
	return ok
}

func (al *accessList) Contains(address common.Address, slot common.Hash) (addressPresent bool, slotPresent bool) {
	slots, ok := al.addresses[address]
	if !ok {
		return false, false
	}
	_, slotPresent = slots[slot]
	return true, slotPresent
}

// AddAddress returns true if the address was not in the list yet
func (al *accessList) AddAddress(address common.Address) bool {
	if _, ok := al.addresses[address]; ok {
		return false
	}
	al.addresses[address] = make(map[common.Hash]struct{})
	return true
}

// AddSlot reports which of address and slot were added by the call
func (al *accessList) AddSlot(address common.Address, slot common.Hash) (addrChange bool, slotChange bool) {
	addrChange = al.AddAddress(address)
	slots := al.addresses[address]
	if _, ok := slots[slot]; ok {
		return addrChange, false
	}
	slots[slot] = struct{}{}
	return addrChange, true
}

func (al *accessList) DeleteAddress(address common.Address) {
	delete(al.addresses, address)
}

func (al *accessList) DeleteSlot(address common.Address, slot common.Hash) {
	if slots, ok := al.addresses[address]; ok {
		delete(slots, slot)
	}
}
