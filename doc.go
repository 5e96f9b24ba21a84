package inferskema

// Package inferskema infers a structural JSON Schema from example JSON documents.
//
// - Value: an immutable JSON value decoded from a pluggable token Source
// - Descriptor: everything observed at one position, grown by folding samples
// - Emit: a closed-world schema (additionalProperties: false on every object)
// - Builder / Infer / InferBytes: drive parsing, folding and emission
//
// Design policy:
// - Keep only public APIs in the root package; put the token engine under internal/.
// - JSON drivers live under source/ and are swapped with SetJSONDriver.
// - Folding never fails; all failures are Issues raised while parsing.
//
// Typical usage:
//
//  b := inferskema.NewBuilder(inferskema.Options{})
//  for _, doc := range docs {
//      if err := b.AddBytes(doc); err != nil {
//          return err
//      }
//  }
//  out, err := b.JSON()
//
