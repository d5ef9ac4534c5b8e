package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go.deviceregistry.dev/registry"
	regstorage "go.deviceregistry.dev/registry/storage"
)

// app bundles the registry and its storage wrapper with the writer every
// subcommand prints results to, so command bodies stay small closures over
// it instead of threading four arguments through each RunE.
type app struct {
	reg     *registry.Registry
	storage *regstorage.Registry
	out     io.Writer
}

// shellErr reports err the way every registryctl subcommand must: "error:
// <code>" on stdout, per the shell's closed error vocabulary. The command's
// RunE still returns the error so cobra's exit code ends up 1.
func (a *app) shellErr(err error) error {
	fmt.Fprintf(a.out, "error: %s\n", errorCode(err))
	return err
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "print a parameter's current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := resolve(a.reg, args[0])
			if err != nil {
				return a.shellErr(err)
			}

			if n.Kind != registry.NodeParameter {
				return a.shellErr(registry.ErrGroupIsNotAParameter)
			}

			v, err := a.reg.Get(n.Instance, n.Parameter)
			if err != nil {
				return a.shellErr(err)
			}

			text, err := registry.ConvertValueToString(v)
			if err != nil {
				return a.shellErr(err)
			}

			fmt.Fprintln(a.out, text)

			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <value-string>",
		Short: "parse a value and apply it to a parameter",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := resolve(a.reg, args[0])
			if err != nil {
				return a.shellErr(err)
			}

			if n.Kind != registry.NodeParameter {
				return a.shellErr(registry.ErrGroupIsNotAParameter)
			}

			if err := a.reg.SetString(n.Instance, n.Parameter, args[1]); err != nil {
				return a.shellErr(err)
			}

			return nil
		},
	}
}

func newCommitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "commit <path>",
		Short: "fire the commit callback at whichever level path names",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := resolve(a.reg, args[0])
			if err != nil {
				return a.shellErr(err)
			}

			var commitErr error

			switch n.Kind {
			case registry.NodeNamespace:
				commitErr = a.reg.CommitNamespace(n.Namespace)
			case registry.NodeSchema:
				commitErr = a.reg.CommitSchema(n.Schema)
			case registry.NodeInstance:
				commitErr = a.reg.CommitInstance(n.Instance)
			case registry.NodeGroup:
				commitErr = a.reg.CommitGroup(n.Instance, n.Group)
			case registry.NodeParameter:
				commitErr = a.reg.CommitParameter(n.Instance, n.Parameter)
			}

			if commitErr != nil {
				return a.shellErr(commitErr)
			}

			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "pretty-print a rooted export traversal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cb := func(n registry.ExportNode, _ any) error {
				fmt.Fprintf(a.out, "%s%s\n", indent(n.Depth), exportNodeLabel(n))
				return nil
			}

			var err error

			if len(args) == 0 {
				err = a.reg.Export(cb, depth, nil)
			} else {
				var n node

				n, err = resolve(a.reg, args[0])
				if err == nil {
					err = exportFrom(a.reg, n, cb, depth)
				}
			}

			if err != nil {
				return a.shellErr(err)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "recursion-depth", "r", 0, "0=unlimited, 1=root only, n>1=root plus n-1 levels")

	return cmd
}

func exportFrom(r *registry.Registry, n node, cb registry.ExportFunc, depth int) error {
	switch n.Kind {
	case registry.NodeNamespace:
		return r.ExportNamespace(n.Namespace, cb, depth, nil)
	case registry.NodeSchema:
		return r.ExportSchema(n.Schema, cb, depth, nil)
	case registry.NodeInstance:
		return r.ExportInstance(n.Instance, cb, depth, nil)
	case registry.NodeGroup:
		return r.ExportGroup(n.Instance, n.Group, cb, depth, nil)
	default:
		return r.ExportParameter(n.Instance, n.Parameter, cb, depth, nil)
	}
}

func indent(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}

	return string(out)
}

func exportNodeLabel(n registry.ExportNode) string {
	return fmt.Sprintf("(%d %s) %s", n.ID(), n.Kind, n.Name())
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file> [path]",
		Short: "load persisted records from file, optionally scoped to one rooted path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			backend := regstorage.NewFileBackend(args[0])

			st := regstorage.New(a.reg)
			st.AddSource(backend)

			var err error
			if len(args) == 1 {
				err = st.Load(context.Background())
			} else {
				err = st.LoadPath(context.Background(), args[1])
			}

			if err != nil {
				return a.shellErr(err)
			}

			return nil
		},
	}
}

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <file> [path]",
		Short: "save the registry (or a rooted subtree of it) to file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			backend := regstorage.NewFileBackend(args[0])
			a.storage.SetDestination(backend)

			ctx := context.Background()

			var err error

			if len(args) == 1 {
				err = a.storage.Save(ctx)
			} else {
				var n node

				n, err = resolve(a.reg, args[1])
				if err == nil {
					err = saveFrom(ctx, a.storage, n)
				}
			}

			if err != nil {
				return a.shellErr(err)
			}

			return nil
		},
	}
}

func saveFrom(ctx context.Context, st *regstorage.Registry, n node) error {
	switch n.Kind {
	case registry.NodeNamespace:
		return st.SaveNamespace(ctx, n.Namespace)
	case registry.NodeSchema:
		return st.SaveSchema(ctx, n.Schema)
	case registry.NodeInstance:
		return st.SaveInstance(ctx, n.Instance)
	case registry.NodeGroup:
		return st.SaveGroup(ctx, n.Instance, n.Group)
	default:
		return st.SaveParameter(ctx, n.Instance, n.Parameter)
	}
}
