// Package acl is the anti-corruption layer between the published dataset
// document and the domain model.
//
// The document's JSON layout (snake_case keys, a flat metadata object with a
// data array) stays inside this package. Everything outside sees
// [domain.Dataset] and domain errors only:
//
//   - [DecodeDataset] turns a document into a dataset. Local files and remote
//     fetches share it, so both sources accept exactly the same input.
//   - [DatasetClient] fetches the document through the instrumented
//     [clients.Client] and reports failures as [domain.LoadError].
//   - [MapHTTPError] converts transport errors and non-2xx responses into
//     domain errors.
//
// The decoder does not validate records. A null entry in data is kept as a
// nil record and only fails when a request selects it.
package acl
