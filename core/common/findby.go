package common

import (
	"gopkg.in/mgo.v2/bson"
)

// ById builds a selector for a collaborator-owned document. Hex ids are
// Mongo object ids; anything else is matched verbatim.
func ById(id string) bson.M {
	return bson.M{"_id": ObjectID(id)}
}

// ObjectID converts a hex id when possible.
func ObjectID(id string) interface{} {
	if bson.IsObjectIdHex(id) {
		return bson.ObjectIdHex(id)
	}
	return id
}
