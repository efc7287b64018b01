/*
Package adapter maps filesystem verbs onto a BOS bucket.

An Adapter wraps a types.Client and turns each call into one or two client
requests, converting the responses into types.Metadata records and every
failure into an *errors.Error whose code names the filesystem operation:

	client, err := bos.NewClient(&bos.Config{Bucket: "assets", Region: "bj"}, logger)
	if err != nil {
		return err
	}
	fs, err := adapter.New(client, &adapter.Config{Logger: logger})
	if err != nil {
		return err
	}
	err = fs.Write(ctx, "img/logo.png", data, &adapter.WriteOptions{
		PutOptions: types.PutOptions{ContentType: "image/png"},
		Visibility: types.VisibilityPublic,
	})

# Directories

Object storage has no directories. CreateDirectory stores an empty object
whose key ends in "/", and DeleteDirectory removes only that marker.
ListContents queries with the prefix "<dir>/"; without recursion it also
passes the "/" delimiter so deeper keys come back as common prefixes, which
are reported as dir entries. Directory paths in listings carry no trailing
slash.

# Visibility

Visibility reads the object ACL. BOS answers 404 for objects that never had
an ACL set, in which case the bucket ACL applies. The first grant naming the
"*" grantee decides: READ or FULL_CONTROL means public, anything else private.
SetVisibility maps public to the public-read canned ACL and private to
private.

# Errors

	UNABLE_TO_WRITE_FILE        Write, WriteStream, Update, UpdateStream
	UNABLE_TO_READ_FILE         Read, ReadStream
	UNABLE_TO_COPY_FILE         Copy
	UNABLE_TO_MOVE_FILE         Move
	UNABLE_TO_DELETE_FILE       Delete
	UNABLE_TO_CREATE_DIRECTORY  CreateDirectory
	UNABLE_TO_DELETE_DIRECTORY  DeleteDirectory
	UNABLE_TO_LIST_CONTENTS     ListContents
	UNABLE_TO_RETRIEVE_METADATA GetMetadata, MimeType, LastModified, FileSize, Visibility
	UNABLE_TO_SET_VISIBILITY    SetVisibility

The client error is kept as the cause, so errors.IsNotFound reports missing
objects through any of them. FileExists and DirectoryExists never fail; an
unreachable bucket reads as absent.
*/
package adapter
