package id

import "encoding/binary"

// SmithyProperty is an 8-byte packed representation of the first 8 bytes
// of a recognized JSON object key in the Smithy AST, used as a dense
// dispatch key in the parser's property switch instead of comparing full
// strings on every shape.
type SmithyProperty uint64

func packProperty(s string) SmithyProperty {
	var buf [8]byte
	copy(buf[:], s)
	return SmithyProperty(binary.LittleEndian.Uint64(buf[:]))
}

// PackProperty computes the dense dispatch key for a property name. Two
// distinct property names that share the same first 8 bytes are not
// expected among the recognized set below (the caller is expected to
// fall back to a full string compare when in doubt).
func PackProperty(s string) SmithyProperty {
	return packProperty(s)
}

// Recognized top-level and shape-level property keys (spec §4.1).
var (
	PropShapes               = packProperty("shapes")
	PropType                 = packProperty("type")
	PropTraits               = packProperty("traits")
	PropMembers              = packProperty("members")
	PropTarget               = packProperty("target")
	PropOperations           = packProperty("operations")
	PropResources            = packProperty("resources")
	PropIdentifiers          = packProperty("identifiers")
	PropProperties           = packProperty("properties")
	PropCreate               = packProperty("create")
	PropPut                  = packProperty("put")
	PropRead                 = packProperty("read")
	PropUpdate               = packProperty("update")
	PropDelete               = packProperty("delete")
	PropList                 = packProperty("list")
	PropErrors               = packProperty("errors")
	PropCollectionOperations = packProperty("collectionOperations")
	PropRename               = packProperty("rename")
	PropMixins               = packProperty("mixins")
	PropMetadata             = packProperty("metadata")
	PropSmithy               = packProperty("smithy")
	PropVersion              = packProperty("version")
	PropInput                = packProperty("input")
	PropOutput               = packProperty("output")
	PropMember               = packProperty("member")
	PropKey                  = packProperty("key")
	PropValue                = packProperty("value")
)
