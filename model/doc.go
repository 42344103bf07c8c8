// Package model provides a typed object model over label layout documents.
//
// A layout document is namespaced XML describing one printable label: a paper
// descriptor plus an ordered collection of placed objects. The model wraps
// the live XML tree rather than copying it out, so everything it does not
// understand survives a parse/serialize round trip unchanged. Mutations are
// limited to the position, size, paper and printer attributes the merge
// pipeline needs to rewrite.
//
// # Labels
//
// [ParseLabel] builds a [Label] from layout XML, and [Label.Serialize] writes
// it back out with the XML declaration, attribute order, and unknown subtrees
// intact:
//
//	label, err := model.ParseLabel(layoutXML)
//	if err != nil {
//		return err
//	}
//	for _, obj := range label.Objects() {
//		fmt.Println(obj.Kind(), obj.X())
//	}
//
// [Label.AppendObject] copies an object from one label into another,
// remapping namespace prefixes where the two documents declare them
// differently and adopting declarations the target is missing.
//
// # Objects
//
// Every child of the objects element implements the [Object] interface:
// position, declared size, and translation. The concrete kinds are:
//
//   - [TextObject] - editable text carrying font name and size
//   - [ImageObject] - an embedded bitmap referencing a container resource
//   - generic objects - barcodes, frames, clipart; moved without
//     interpretation
//
// # Units
//
// Geometry is expressed in typographic points. [ParsePoints] reads attribute
// values with or without the "pt" suffix, [FormatPoints] writes them back in
// shortest form, and [MMToPt] / [PtToMM] convert at the millimeter API
// boundary.
package model
