// Package errors provides the structured error type used across the equipment ledger.
//
// Every error carries a Code drawn from the ledger taxonomy:
//   - InvalidArgument: malformed or missing input (a ValidationError)
//   - NotFound: unknown item, character, or bank entry
//   - SlotConflict, CapacityExceeded, AlreadyEquipped: equip-time rejections
//   - Storage: remote or local persistence failure
//   - Internal, Unavailable, Unimplemented, Canceled, DeadlineExceeded: transport level
//
// # Basic Usage
//
//	err := errors.NotFoundf("item %s not found", itemID)
//	err := errors.SlotConflictf("slot %s is occupied", slot).WithMeta("slot", slot)
//
// Wrapping keeps the code of a wrapped *Error:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load character")
//	}
//
// Persistence failures are tagged explicitly:
//
//	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
//	    return errors.Storagef(err, "failed to save character %s", id)
//	}
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("room_id", input.RoomID, vb)
//	errors.ValidateRange("equipped_pouches", n, 0, 2, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Transports
//
// ToGRPCError maps the code to a gRPC status and carries the exact code in a
// google.rpc.ErrorInfo detail so FromGRPCError can restore it on the client.
// Code.HTTPStatus gives the status used by the REST handlers.
package errors
