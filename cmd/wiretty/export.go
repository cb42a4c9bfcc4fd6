package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taigrr/wiretty/pkg/render"
	"github.com/taigrr/wiretty/pkg/scene"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		out    string
		frame  int
		guides bool
	)
	cmd := &cobra.Command{
		Use:   "export [file.glb|file.gltf]",
		Short: "Write the scene as glTF",
		Long: "export writes the fitted and colored scene, or the demo cube at --frame,\n" +
			"as glTF. The output is binary when --out ends in .glb.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := opts.setupLogging()
			if err != nil {
				return err
			}
			defer logs.Close()

			var path string
			if len(args) > 0 {
				path = args[0]
			}
			w, err := loadWorld(path)
			if err != nil {
				return err
			}
			w.animate(frame)

			s := scene.New(w.objects.Objects...)
			if guides {
				s.Add(w.guides.Objects...)
			}
			if err := scene.SaveGLTF(out, s); err != nil {
				return err
			}
			render.Logger().Info("exported", "scene", w.name, "objects", s.Len(), "path", out)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d objects)\n", out, s.Len())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "scene.glb", "output path (.glb or .gltf)")
	f.IntVar(&frame, "frame", 0, "demo animation frame")
	f.BoolVar(&guides, "guides", false, "include the floor grid and axes")
	return cmd
}
